package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/hirenbhut/social-api/internal/handler"
	authhandler "github.com/hirenbhut/social-api/internal/handler/auth"
	"github.com/hirenbhut/social-api/internal/middleware"
	"github.com/hirenbhut/social-api/pkg/logger"
	"github.com/hirenbhut/social-api/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine        *gin.Engine
	auth          *middleware.AuthMiddleware
	authH         *authhandler.Handler
	userH         Handler
	postH         Handler
	activityH     Handler
	notificationH Handler
	h             *handler.Handler
}

type Config struct {
	RateLimit rate.Limit
	RateBurst int
	CORS      middleware.CORSConfig
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authhandler.Handler,
	userH Handler,
	postH Handler,
	activityH Handler,
	notificationH Handler,
	h *handler.Handler,
	log *logger.Logger,
	m *metrics.Metrics,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.Logger(log, m),
	)
	engine.Use(middleware.CORS(config.CORS))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return &Router{
		engine:        engine,
		auth:          auth,
		authH:         authH,
		userH:         userH,
		postH:         postH,
		activityH:     activityH,
		notificationH: notificationH,
		h:             h,
	}
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.setupHealthCheck(api)

	r.authH.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.authH.RegisterProtectedRoutes(protected)
	r.userH.RegisterRoutes(protected)
	r.postH.RegisterRoutes(protected)
	r.activityH.RegisterRoutes(protected)
	r.notificationH.RegisterRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
