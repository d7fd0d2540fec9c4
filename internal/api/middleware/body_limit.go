package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vvf-listone/pkg/response"
)

// BodyLimit caps request bodies at maxBytes.
// Handlers that read the body themselves see *http.MaxBytesError; binding
// failures caused by the cap are turned into 413 here.
// Routes listed in textRoutes get a plain-text 413 instead of the JSON envelope.
func BodyLimit(maxBytes int64, textRoutes ...string) gin.HandlerFunc {
	plain := make(map[string]bool, len(textRoutes))
	for _, r := range textRoutes {
		plain[r] = true
	}
	tooLarge := func(c *gin.Context) {
		if plain[c.FullPath()] {
			response.Text(c, http.StatusRequestEntityTooLarge, "Payload too large")
			return
		}
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			tooLarge(c)
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() || c.Writer.Written() {
			return
		}
		for _, err := range c.Errors {
			var limitErr *http.MaxBytesError
			if errors.As(err.Err, &limitErr) {
				tooLarge(c)
				return
			}
		}
	}
}
