package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nziladragao/agenda-api/pkg/auth"
	"github.com/nziladragao/agenda-api/pkg/httputil"
)

const ContextClaims = "claims"

type AuthMiddleware struct {
	validator auth.TokenValidator
}

func NewAuthMiddleware(validator auth.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Authenticate verifies the bearer token and sets the caller's claims in
// the request context. Token issuance happens in the directory service.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httputil.AbortWithMessage(c, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.AbortWithMessage(c, http.StatusUnauthorized, "invalid authorization format")
			return
		}

		claims, err := m.validator.ValidateToken(parts[1])
		if err != nil {
			httputil.AbortWithMessage(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RequireCapability gates a route on one of the authz capability checks.
func (m *AuthMiddleware) RequireCapability(check func(*auth.Claims) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		if claims == nil {
			httputil.AbortWithMessage(c, http.StatusUnauthorized, "missing credentials")
			return
		}

		if !check(claims) {
			httputil.AbortWithMessage(c, http.StatusForbidden, "permission denied")
			return
		}

		c.Next()
	}
}

func ClaimsFromContext(c *gin.Context) *auth.Claims {
	v, exists := c.Get(ContextClaims)
	if !exists {
		return nil
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
