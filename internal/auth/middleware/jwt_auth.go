package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tidytask/tidytask-backend/internal/api/http/respond"
	"github.com/tidytask/tidytask-backend/internal/auth"
)

// JWTAuthMiddleware validates bearer tokens and stores the authenticated
// user's id and name in the request context.
func JWTAuthMiddleware(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			respond.Abort(c, http.StatusUnauthorized, "missing authorization token")
			return
		}

		userID, name, err := issuer.Verify(token)
		if err != nil {
			respond.Abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(auth.CtxUserID, userID)
		c.Set(auth.CtxUserName, name)

		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
