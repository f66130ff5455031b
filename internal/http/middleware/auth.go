package middleware

import (
	"net/http"
	"strings"

	"github.com/guironm/crew-center/internal/services"
	"github.com/guironm/crew-center/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	userRoleKey    = "userRole"
	userSubjectKey = "userSubject"
)

// TokenParser validates bearer tokens.
type TokenParser interface {
	ParseToken(raw string) (*services.Claims, error)
}

// RequireAuth checks the bearer token and stores the caller's role for
// RequireRoles.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		claims, err := parser.ParseToken(strings.TrimSpace(raw))
		if err != nil {
			utils.LogEvent(GetRequestID(c), "auth", "reject_token", err.Error())
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		c.Set(userRoleKey, claims.Role)
		c.Set(userSubjectKey, claims.Subject)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      msg,
		"request_id": GetRequestID(c),
	})
}
