package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/nziladragao/agenda-api/pkg/auth"
)

type fakeValidator struct {
	claims *auth.Claims
	err    error
}

func (f *fakeValidator) ValidateToken(token string) (*auth.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func newTestRouter(m *AuthMiddleware, capability func(*auth.Claims) bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", m.Authenticate())
	if capability != nil {
		group.Use(m.RequireCapability(capability))
	}
	group.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateMissingHeader(t *testing.T) {
	m := NewAuthMiddleware(&fakeValidator{})
	r := newTestRouter(m, nil)

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	m := NewAuthMiddleware(&fakeValidator{})
	r := newTestRouter(m, nil)

	w := doRequest(r, "Token abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	m := NewAuthMiddleware(&fakeValidator{err: errors.New("expired")})
	r := newTestRouter(m, nil)

	w := doRequest(r, "Bearer abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateSetsClaims(t *testing.T) {
	claims := &auth.Claims{UserID: uuid.New(), Role: "staff", Degree: 1}
	m := NewAuthMiddleware(&fakeValidator{claims: claims})
	r := newTestRouter(m, nil)

	w := doRequest(r, "Bearer abc123")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireCapabilityDenied(t *testing.T) {
	claims := &auth.Claims{UserID: uuid.New(), Role: "member"}
	m := NewAuthMiddleware(&fakeValidator{claims: claims})
	r := newTestRouter(m, func(c *auth.Claims) bool { return c.Role == "admin" })

	w := doRequest(r, "Bearer abc123")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireCapabilityAllowed(t *testing.T) {
	claims := &auth.Claims{UserID: uuid.New(), Role: "admin"}
	m := NewAuthMiddleware(&fakeValidator{claims: claims})
	r := newTestRouter(m, func(c *auth.Claims) bool { return c.Role == "admin" })

	w := doRequest(r, "Bearer abc123")
	assert.Equal(t, http.StatusOK, w.Code)
}
