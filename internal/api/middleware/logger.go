package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// exportFileKey set by the export handlers to the served document's filename
const exportFileKey = "export_file"

// Logger request log (zap).
// Authenticated requests carry the role; document downloads carry the filename.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		fields := []zap.Field{
			zap.Int("status", statusCode),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", latency),
			zap.Int("bytes", c.Writer.Size()),
		}
		if rid := c.GetString(requestIDKey); rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		if role := c.GetString("role"); role != "" {
			fields = append(fields, zap.String("role", role))
		}
		if file := c.GetString(exportFileKey); file != "" {
			fields = append(fields, zap.String("export_file", file))
		}

		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		switch {
		case statusCode >= 500:
			logger.Error("request failed", fields...)
		case statusCode >= 400:
			logger.Warn("client error", fields...)
		case c.GetString(exportFileKey) != "":
			logger.Info("document served", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}
