package app

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aicody-snippets/core/internal/middleware"
	"github.com/aicody-snippets/core/internal/modules/auth"
	"github.com/aicody-snippets/core/internal/modules/snippet"
	"github.com/aicody-snippets/core/internal/pkg/jwt"
	"github.com/aicody-snippets/core/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router
	authMW := middleware.Auth()

	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})
	a.registerStatic()

	appInfo := gin.H{
		"name":    "aicody-snippets",
		"version": "1.0.0",
	}

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth())
	api.Use(middleware.RateLimit(a.rc.Raw()))
	api.Use(middleware.Idempotence(a.rc.Raw()))

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		up := time.Since(a.started)
		c.JSON(http.StatusOK, gin.H{
			"timestamp": up.Milliseconds(),
			"humanize":  humanizeDuration(up),
		})
	})
	api.GET("/health", a.health)

	tokenTTL := jwt.DefaultTTL
	if a.cfg.TokenTTLHours > 0 {
		tokenTTL = time.Duration(a.cfg.TokenTTLHours) * time.Hour
	}

	userStore := auth.NewMongoUserStore(a.db)
	authSvc := auth.NewService(userStore, a.logger, tokenTTL)
	auth.NewHandler(authSvc).RegisterRoutes(api, authMW)

	snippetStore := snippet.NewMongoStore(a.db)
	snippetSvc := snippet.NewService(snippetStore, a.logger)
	snippet.NewHandler(snippetSvc).RegisterRoutes(api, authMW)
}

func (a *App) health(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, 2*time.Second)
	defer cancel()

	mongoOK := a.client.Ping(ctx, nil) == nil
	redisOK := a.rc.Raw().Ping(ctx).Err() == nil

	status := http.StatusOK
	if !mongoOK || !redisOK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"mongo":     mongoOK,
		"redis":     redisOK,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// registerStatic serves the SPA build, falling back to index.html for
// client-side routes. API misses still return the JSON 404 envelope.
func (a *App) registerStatic() {
	staticDir := a.cfg.Paths.Static
	index := filepath.Join(staticDir, "index.html")

	a.router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") || c.Request.Method != http.MethodGet || staticDir == "" {
			response.NotFound(c)
			return
		}
		requested := filepath.Join(staticDir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(requested); err == nil && !info.IsDir() {
			c.File(requested)
			return
		}
		if _, err := os.Stat(index); err == nil {
			c.File(index)
			return
		}
		response.NotFound(c)
	})
}
