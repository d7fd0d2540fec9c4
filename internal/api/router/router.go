package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vvf-listone/config"
	"vvf-listone/internal/api/handler"
	"vvf-listone/internal/api/middleware"
	"vvf-listone/internal/model"
	"vvf-listone/pkg/jwt"
	"vvf-listone/pkg/response"
)

// documentRoutes answer with plain-text errors, not the JSON envelope
var documentRoutes = []string{"/generate-document", "/api/generate-pdf"}

// Setup builds the gin engine.
// limiter may be nil (no Redis): document generation is then unthrottled.
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	sessions middleware.SessionSource,
	limiter middleware.Limiter,
	logger *zap.Logger,
) *gin.Engine {
	if !cfg.Server.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders(documentRoutes...))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit, documentRoutes...))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── document generation (plain-text errors, no envelope) ──
	generate := middleware.RateLimit(limiter, cfg.Export.RateLimit, cfg.Export.RateWindow, logger)
	for _, path := range documentRoutes {
		r.POST(path, generate, h.Export.GenerateDocument)
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		session := v1.Group("/session")
		{
			session.POST("/login", h.Session.Login)
			session.POST("/logout", h.Session.Logout)
			session.GET("", h.Session.GetSession)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, sessions))
		{
			authorized.GET("/state", h.State.GetState)
			authorized.POST("/state/reset", middleware.RoleAuth(model.RoleCompilatoreA), h.State.ResetState)
			authorized.PUT("/session/role", h.Session.SetRole)

			events := authorized.Group("/events")
			{
				events.GET("", h.State.ListEvents)
				events.POST("", h.State.SaveEvent)
				events.PUT("", h.State.ReplaceEvents)
				events.POST("/:id/edit", h.State.StartEdit)
				events.POST("/edit/cancel", h.State.CancelEdit)
			}

			operators := authorized.Group("/operators")
			{
				operators.GET("", h.State.ListOperators)
				operators.PUT("", middleware.RoleAuth(model.RoleCompilatoreA), h.State.ReplaceOperators)
			}

			authorized.GET("/selected-date", h.State.GetSelectedDate)
			authorized.PUT("/selected-date", h.State.SetSelectedDate)
			authorized.PUT("/screen", h.State.SetScreen)

			export := authorized.Group("/export")
			{
				export.GET("/listone.xlsx", h.Export.ExportSheet)
			}
		}
	}

	// ── bundled UI ──
	if !cfg.Server.IsDevelopment() && cfg.Server.StaticDir != "" {
		r.NoRoute(spaFallback(cfg.Server.StaticDir))
	}

	return r
}

// spaFallback serves files of dir, and index.html for any other GET outside the API
func spaFallback(dir string) gin.HandlerFunc {
	index := filepath.Join(dir, "index.html")
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || strings.HasPrefix(path, "/api/") {
			response.NotFound(c, 10404, "route not found")
			return
		}

		file := filepath.Join(dir, filepath.Clean("/"+path))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(index)
	}
}
