package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prof/server/internal/module/auth"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	claims *auth.Claims
	err    error
}

func (s *stubValidator) ValidateToken(string) (*auth.Claims, error) {
	return s.claims, s.err
}

func authTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetUserID(c).String(),
			"email":   GetEmail(c),
		})
	})
	return r
}

func probe(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/probe", nil)
	if authHeader != "" {
		req.Header.Set(AuthorizationHeader, authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()
	valid := &stubValidator{claims: &auth.Claims{UserID: userID, Email: "a@b.sn"}}

	t.Run("valid token sets identity", func(t *testing.T) {
		w := probe(authTestRouter(RequireAuth(valid)), "Bearer token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), "a@b.sn")
	})

	t.Run("missing header rejected", func(t *testing.T) {
		w := probe(authTestRouter(RequireAuth(valid)), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-bearer header rejected", func(t *testing.T) {
		w := probe(authTestRouter(RequireAuth(valid)), "Basic dXNlcg==")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		bad := &stubValidator{err: auth.ErrInvalidToken}
		w := probe(authTestRouter(RequireAuth(bad)), "Bearer garbage")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	userID := uuid.New()
	valid := &stubValidator{claims: &auth.Claims{UserID: userID}}

	t.Run("valid token sets identity", func(t *testing.T) {
		w := probe(authTestRouter(OptionalAuth(valid)), "Bearer token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("missing token proceeds anonymously", func(t *testing.T) {
		w := probe(authTestRouter(OptionalAuth(valid)), "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), uuid.Nil.String())
	})

	t.Run("invalid token proceeds anonymously", func(t *testing.T) {
		bad := &stubValidator{err: auth.ErrInvalidToken}
		w := probe(authTestRouter(OptionalAuth(bad)), "Bearer garbage")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
