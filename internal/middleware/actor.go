package middleware

import (
	"strings"

	"diamondtrade/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ActorHeader     = "X-Actor"
	RequestIDHeader = "X-Request-ID"
	maxActorLength  = 100
)

// Actor copies the optional X-Actor header into the request context so that
// audit entries record who made a change.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(ActorHeader))
		if len(actor) > maxActorLength {
			actor = actor[:maxActorLength]
		}
		if actor != "" {
			ctx := service.WithActor(c.Request.Context(), actor)
			c.Request = c.Request.WithContext(ctx)
			c.Set("actor", actor)
		}
		c.Next()
	}
}

// RequestID tags every request with an id, reusing the caller's when given.
// It must run before logger.GinMiddleware, which picks the id up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Set("request_id", id)
		c.Next()
	}
}
