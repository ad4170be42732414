package middleware

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

type ridKey struct{}

// RequestID tags every request with an id and writes one access-log line
// per request. A client-supplied X-Request-Id is trusted as-is so a
// frontend can correlate its own traces; otherwise a fresh uuid is minted.
// The id travels in the gin context, the request's context.Context, and
// the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Set("request_id", rid)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), ridKey{}, rid),
		)
		c.Writer.Header().Set(requestIDHeader, rid)

		start := time.Now()
		c.Next()

		log.Printf("[http] id=%s %s %s status=%d latency=%s",
			rid, c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}

// RequestIDFrom returns the request id carried by ctx, if any.
func RequestIDFrom(ctx context.Context) string {
	rid, _ := ctx.Value(ridKey{}).(string)
	return rid
}
