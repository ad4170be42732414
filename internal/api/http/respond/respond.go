// Package respond normalizes handler results into the API's wire shape:
// {data, message?, status}. Wrapping is idempotent; raw strings and values
// already in the wire shape pass through untouched. Routes that serve
// non-JSON content (the OAuth callback page) simply never call into it.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidytask/tidytask-backend/internal/apperr"
)

// Envelope is the uniform response body.
type Envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
	Status  int    `json:"status"`
}

// Wrap normalizes v into an Envelope. Values already enveloped (the type
// itself, or a map carrying both "data" and "status") come back unchanged,
// as do raw strings. A map with only a "message" renders as a message-only
// envelope with null data.
func Wrap(v any, status int) any {
	switch val := v.(type) {
	case Envelope:
		return val
	case *Envelope:
		return *val
	case string:
		return val
	case map[string]any:
		_, hasData := val["data"]
		_, hasStatus := val["status"]
		if hasData && hasStatus {
			return val
		}
		if msg, ok := val["message"].(string); ok && !hasData {
			return Envelope{Data: nil, Message: msg, Status: status}
		}
	}
	return Envelope{Data: v, Status: status}
}

// JSON writes v wrapped in the envelope. Raw strings are written as plain
// text, matching the pass-through rule.
func JSON(c *gin.Context, status int, v any) {
	if s, ok := v.(string); ok {
		c.String(status, s)
		return
	}
	c.JSON(status, Wrap(v, status))
}

// Created writes a 201 envelope.
func Created(c *gin.Context, v any) {
	JSON(c, http.StatusCreated, v)
}

// Message writes a message-only envelope with null data.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, Envelope{Data: nil, Message: msg, Status: status})
}

// Abort writes a message-only envelope and stops the middleware chain.
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Envelope{Data: nil, Message: msg, Status: status})
}

// Error maps the error's kind to a transport status and writes a
// message-only envelope. Storage and unknown failures are reported without
// their underlying detail.
func Error(c *gin.Context, err error) {
	status := StatusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	Message(c, status, msg)
}

// StatusOf translates an error kind into an HTTP status code.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
