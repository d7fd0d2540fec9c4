package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	uiCSP  = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; font-src 'self' data:"
	apiCSP = "default-src 'none'; frame-ancestors 'none'"
)

// SecurityHeaders hardening headers.
// The bundled UI gets a same-origin CSP; API responses and generated documents
// are not cached and may load nothing.
func SecurityHeaders(documentRoutes ...string) gin.HandlerFunc {
	documents := make(map[string]bool, len(documentRoutes))
	for _, r := range documentRoutes {
		documents[r] = true
	}

	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || documents[path] {
			c.Header("Content-Security-Policy", apiCSP)
			c.Header("Cache-Control", "no-store")
		} else {
			c.Header("Content-Security-Policy", uiCSP)
		}

		c.Next()
	}
}
