package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "paperflow-backend/internal/auth"
	"paperflow-backend/internal/documents"
	"paperflow-backend/internal/shared/config"
	"paperflow-backend/internal/shared/metrics"
	"paperflow-backend/internal/shared/server/middleware"
	"paperflow-backend/internal/shared/server/respond"
	"paperflow-backend/internal/templates"
	"paperflow-backend/internal/users"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config           config.Config
	UsersHandler     *users.Handler
	TemplatesHandler *templates.Handler
	DocumentsHandler *documents.Handler
	GoogleAuth       *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	// The local object store hands out URLs under PUBLIC_BASE_URL; serve the
	// backing directory so those URLs resolve without an external file server.
	if deps.Config.ObjectStoreType != "s3" && strings.TrimSpace(deps.Config.LocalStoreDir) != "" {
		r.Static(localFilesRoute(deps.Config.PublicBaseURL), deps.Config.LocalStoreDir)
	}

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	public := api.Group("")
	public.Use(middleware.RateLimit(authRateLimit()))
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterPublicRoutes(public)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(public)
	}

	authed := api.Group("")
	authed.Use(middleware.Auth([]byte(deps.Config.JWTSecret)))
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(authed)
	}
	if deps.TemplatesHandler != nil {
		deps.TemplatesHandler.RegisterRoutes(authed)
	}
	if deps.DocumentsHandler != nil {
		deps.DocumentsHandler.RegisterRoutes(authed)
	}

	return r
}

// authRateLimit throttles credential guessing harder than the rest of the
// public surface.
func authRateLimit() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 10, Burst: 20},
			"LOGIN":   {Rate: 1, Burst: 5},
		},
		GroupFor: func(c *gin.Context) string {
			path := c.FullPath()
			if strings.HasSuffix(path, "/auth/login") || strings.HasSuffix(path, "/auth/register") {
				return "LOGIN"
			}
			return ""
		},
	}
}

// localFilesRoute extracts the route path from the public base URL the local
// store embeds in object URLs.
func localFilesRoute(baseURL string) string {
	if u, err := url.Parse(baseURL); err == nil {
		if path := strings.Trim(u.Path, "/"); path != "" {
			return "/" + path
		}
	}
	return "/files"
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
