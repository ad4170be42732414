package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Gin context keys set by the JWT middleware.
const (
	CtxUserID   = "user_id"
	CtxUserName = "user_name"
)

// UserID returns the authenticated user's database id, or 0 when the
// request did not pass the JWT middleware.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserID)
}

// UserName returns the display name carried in the token, if any.
func UserName(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserName))
}
