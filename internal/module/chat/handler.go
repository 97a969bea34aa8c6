package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prof/server/internal/module/user"
	"github.com/prof/server/internal/shared/response"
	"github.com/prof/server/internal/utils/middleware"
)

// Handler handles HTTP requests for chat.
type Handler struct {
	service *Service
}

// NewHandler creates a new chat handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the chat routes. Authentication is optional:
// a valid session token identifies the account, otherwise an explicit
// userId in the body is honored.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	chat := r.Group("/chat")
	{
		chat.POST("/solve", h.Solve)
		chat.GET("/conversations/:userId", h.ListConversations)
	}
}

// Solve handles a tutoring question.
//
//	@Summary		Solve a problem
//	@Description	Send a question to the tutor; answers are generated by the completion provider
//	@Tags			Chat
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SolveRequest	true	"Question with optional subject/level/mode and conversation reference"
//	@Success		200		{object}	SolveResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		429		{object}	response.ErrorResponse
//	@Failure		500		{object}	response.ErrorResponse
//	@Router			/chat/solve [post]
func (h *Handler) Solve(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Problem is required")
		return
	}

	// A session token outranks the body's userId.
	userRef := req.UserID
	if id := middleware.GetUserID(c); id != uuid.Nil {
		userRef = id.String()
	}

	result, err := h.service.Solve(c.Request.Context(), &SolveInput{
		Question:       req.Problem,
		Subject:        req.Subject,
		Level:          req.Level,
		Mode:           req.Mode,
		ConversationID: req.ConversationID,
		UserID:         userRef,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SolveResponse{
		Solution:          result.Solution,
		ConversationID:    result.ConversationID,
		MessagesRemaining: result.MessagesRemaining,
	})
}

// ListConversations returns the most recent conversations for an account.
//
//	@Summary		List conversations
//	@Description	Return the 20 most recently updated conversations, newest first
//	@Tags			Chat
//	@Produce		json
//	@Param			userId	path		string	true	"Account ID"
//	@Success		200		{object}	ConversationsResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Router			/chat/conversations/{userId} [get]
func (h *Handler) ListConversations(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	convs, err := h.service.ListConversations(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, "Failed to get conversations")
		return
	}

	c.JSON(http.StatusOK, ConversationsResponse{Conversations: convs})
}

// handleError maps coordinator errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
		{Err: ErrEmptyQuestion, Status: http.StatusBadRequest, Message: "Problem is required"},
		{
			Err:     user.ErrDailyLimitReached,
			Status:  http.StatusTooManyRequests,
			Message: "Daily message limit reached",
			Hint:    "Upgrade to Premium for unlimited messages!",
		},
		{Err: user.ErrUserNotFound, Status: http.StatusNotFound},
		{Err: ErrGenerationFailed, Status: http.StatusInternalServerError, Message: "Failed to solve problem"},
		{Err: ErrPersistenceFailed, Status: http.StatusInternalServerError, Message: "Failed to save conversation"},
	})
}
