package apiHttp

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/rubbishit/backend/docs"
	internalV1 "github.com/rubbishit/backend/internal/api/http/internal/v1"
	"github.com/rubbishit/backend/internal/config"
	"github.com/rubbishit/backend/internal/service"
	"github.com/rubbishit/backend/pkg/limiter"
	"github.com/rubbishit/backend/pkg/logger"
	"github.com/rubbishit/backend/pkg/validator"
)

type Handler struct {
	services *service.Services
	config   *config.Config
	gatherer prometheus.Gatherer
}

func NewHandlers(
	services *service.Services,
	cfg *config.Config,
	gatherer prometheus.Gatherer,
) *Handler {
	return &Handler{
		services: services,
		config:   cfg,
		gatherer: gatherer,
	}
}

func (h *Handler) Init(cfg *config.Config) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	validator.RegisterGinValidator()

	router.Use(
		requestIDMiddleware,
		ginzap.Ginzap(logger.Logger(), time.RFC3339, true),
		limiter.Limit(cfg.Limiter.RPS, cfg.Limiter.Burst, cfg.Limiter.TTL),
		corsMiddleware(cfg.HttpServer.CORSOrigins),
		sessionMiddleware(cfg.Session),
	)
	router.Use(ginzap.RecoveryWithZap(logger.Logger(), true))

	if cfg.HttpServer.SwaggerEnabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.NewHandler()))
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	router.StaticFile("/", cfg.HttpServer.IndexFile)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "not found"})
	})

	h.initAPI(router)

	return router
}

func (h *Handler) initAPI(router *gin.Engine) {
	internalHandlersV1 := internalV1.NewHandler(h.services, h.config)
	api := router.Group("/api")
	internalHandlersV1.Init(api)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = origins
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, requestIDHeader)
	corsCfg.ExposeHeaders = []string{requestIDHeader}

	return cors.New(corsCfg)
}

func sessionMiddleware(cfg config.SessionConfig) gin.HandlerFunc {
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(internalV1.SessionOptions(cfg))

	return sessions.Sessions(internalV1.SessionName, store)
}
