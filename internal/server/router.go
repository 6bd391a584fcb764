package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/typeshelf/typeshelf/backend/go-services/handlers"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/config"
	fonthandler "github.com/typeshelf/typeshelf/backend/go-services/internal/font/handler"
	fontservice "github.com/typeshelf/typeshelf/backend/go-services/internal/font/service"
	grouphandler "github.com/typeshelf/typeshelf/backend/go-services/internal/fontgroup/handler"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/logger"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/middleware"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/response"
	"github.com/typeshelf/typeshelf/backend/go-services/web"
)

// Deps are the services the router exposes. Fonts may be nil, which leaves
// out the font endpoints and the UI.
type Deps struct {
	Fonts    *fontservice.Service
	Groups   grouphandler.Service
	Verifier middleware.Verifier
	Redis    *redis.Client
	Ready    []handlers.ReadyCheck
}

// NewRouter builds the gin engine: CORS, access log and recovery globally,
// rate limiting on /api, write protection when a verifier is set.
func NewRouter(cfg *config.Config, d Deps) *gin.Engine {
	r := gin.New()
	response.HandleMethodNotAllowed(r)
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigin))
	r.Use(middleware.RequestLogger(), gin.CustomRecovery(func(c *gin.Context, rec interface{}) {
		logger.Errorf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, rec)
		response.Fail(c, http.StatusInternalServerError, "An error occurred")
	}))

	handlers.RegisterHealth(r, d.Ready...)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	api := r.Group("/api")
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && d.Redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			api.Use(middleware.RedisRateLimitMiddleware(d.Redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			api.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	var guard gin.HandlerFunc
	if d.Verifier != nil {
		guard = middleware.AuthMiddleware(d.Verifier)
	}

	grouphandler.RegisterFontGroupRoutes(api, d.Groups, guard)
	if d.Fonts != nil {
		fonthandler.RegisterFontRoutes(api, d.Fonts, guard)
		presign, _ := d.Fonts.Store().(fonthandler.Presigner)
		fonthandler.RegisterUploadRoutes(r, d.Fonts, presign)
		web.Register(r)
	}
	return r
}
