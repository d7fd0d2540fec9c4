package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applogger "vvf-listone/pkg/logger"
)

const requestIDKey = "request_id"

// requestIDMaxLen caps client-supplied IDs before they reach the logs
const requestIDMaxLen = 64

// RequestID propagates X-Request-ID, generating a UUID when absent.
// The id is also stored in the request context so service logs
// (browser launch, render, spreadsheet write) carry it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(requestIDKey, rid)
		c.Header("X-Request-ID", rid)
		c.Request = c.Request.WithContext(applogger.WithRequestID(c.Request.Context(), rid))

		c.Next()
	}
}
