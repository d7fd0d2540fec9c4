package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"vvf-listone/internal/model"
	"vvf-listone/pkg/jwt"
	"vvf-listone/pkg/response"
)

// SessionSource the current session, nil when logged out
type SessionSource interface {
	LoadSession(ctx context.Context) *model.SessionData
}

// JWTAuth access token middleware.
// Reads Authorization: Bearer <token>; the token must belong to the session
// that is currently stored, so logout or a role switch revokes it.
func JWTAuth(jwtMgr *jwt.Manager, sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing Authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "malformed Authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token invalid or expired")
			c.Abort()
			return
		}

		sess := sessions.LoadSession(c.Request.Context())
		if sess == nil || string(sess.Role) != claims.Role || sess.AuthenticatedAt.UnixNano() != claims.SessionAt {
			response.Unauthorized(c, 10002, "session ended")
			c.Abort()
			return
		}

		c.Set("role", claims.Role)
		c.Next()
	}
}

// RoleAuth allows only the listed roles
func RoleAuth(allowedRoles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}

		userRole, _ := role.(string)
		for _, r := range allowedRoles {
			if userRole == string(r) {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "role not allowed")
		c.Abort()
	}
}
