package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"slot-reservation-engine/internal/domain/user"
	"slot-reservation-engine/internal/handler/httperr"
	"slot-reservation-engine/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const ctxPrincipalKey = "principal"

var (
	errMissingToken     = errors.New("missing bearer token")
	errMissingPrincipal = errors.New("principal not set; RequireAuth must run first")
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingToken, "Access token required", nil)
			return
		}

		principal, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

// RequireRole admits only principals holding one of roles. Must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError, errMissingPrincipal, "Internal server error", nil)
			return
		}

		if !slices.Contains(roles, principal.Role) {
			httperr.AbortWithCode(c, http.StatusForbidden, errors.New("role not permitted: "+principal.Role.String()),
				"FORBIDDEN", "Insufficient permissions", nil)
			return
		}

		c.Next()
	}
}

func SetPrincipal(c *gin.Context, principal user.Principal) {
	c.Set(ctxPrincipalKey, principal)
}

func GetPrincipal(c *gin.Context) (user.Principal, bool) {
	v, exists := c.Get(ctxPrincipalKey)
	if !exists {
		return user.Principal{}, false
	}
	p, ok := v.(user.Principal)
	return p, ok
}
