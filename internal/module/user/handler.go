package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prof/server/internal/shared/response"
	"github.com/prof/server/internal/utils/middleware"
)

// Handler handles HTTP requests for accounts and sessions.
type Handler struct {
	service *Service
}

// NewHandler creates a new user handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public auth routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
	}
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.GET("/profile", h.Profile)
	}
}

// Signup handles account creation.
//
//	@Summary		Sign up
//	@Description	Create a new account with email, password and name
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SignupRequest	true	"Signup request"
//	@Success		201		{object}	AuthResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Router			/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "All fields required")
		return
	}

	resp, err := h.service.Signup(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles email/password login.
//
//	@Summary		Log in
//	@Description	Authenticate with email and password
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Login request"
//	@Success		200		{object}	AuthResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		401		{object}	response.ErrorResponse
//	@Router			/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email and password required")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Profile returns the authenticated account's public projection.
//
//	@Summary		Get profile
//	@Description	Return the current account with its remaining-quota snapshot
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	map[string]interface{}
//	@Failure		401	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/auth/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	u, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u})
}

// handleError maps domain errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
		{Err: ErrMissingFields, Status: http.StatusBadRequest},
		{Err: ErrEmailAlreadyExists, Status: http.StatusBadRequest},
		{Err: ErrInvalidCredentials, Status: http.StatusUnauthorized},
		{Err: ErrUserNotFound, Status: http.StatusNotFound},
	})
}
