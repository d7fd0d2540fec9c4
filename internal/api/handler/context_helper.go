package handler

import (
	"github.com/gin-gonic/gin"

	"vvf-listone/internal/model"
	"vvf-listone/pkg/response"
)

// ctxKeyRole set by middleware.JWTAuth
const ctxKeyRole = "role"

// ctxKeyExportFile read by middleware.Logger
const ctxKeyExportFile = "export_file"

// MustGetRole extracts the authenticated role from the gin context.
// Writes a 401 and returns false when JWTAuth did not run; callers return on false.
func MustGetRole(c *gin.Context) (model.UserRole, bool) {
	v, exists := c.Get(ctxKeyRole)
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return model.UserRole(s), true
}
