package router

import (
	"context"
	"net/http"
	"time"

	apphttp "marketplace_backend/internal/http"
	"marketplace_backend/platform/apperr"
	"marketplace_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const readinessTimeout = 2 * time.Second

// New builds the gin engine: shared middleware, health endpoints and every
// module's routes under /api/v1.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config)))

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	engine.GET("/api/ready", func(c *gin.Context) {
		if app.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
			defer cancel()
			if err := app.Health.Ping(ctx); err != nil {
				app.Logger.WithContext(c.Request.Context()).Warn("readiness check failed", "error", err)
				httpkit.HandleError(c, apperr.Unavailable("listing store unavailable"))
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	v1 := engine.Group("/api/v1")
	if rps := app.Config.GetRateLimitRPS(); rps > 0 {
		limiter := httpkit.NewIPRateLimiter(rate.Limit(rps), app.Config.GetRateLimitBurst(), app.Logger)
		v1.Use(limiter.RateLimit())
	}

	routerCtx := &apphttp.RouterContext{
		Engine: engine,
		V1:     v1,
	}
	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		app.Logger.Info("module registered", "module", module.Name())
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", httpkit.RequestIDHeader},
		ExposeHeaders:    []string{httpkit.RequestIDHeader},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	}
	return corsCfg
}
