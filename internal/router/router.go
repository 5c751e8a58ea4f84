package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/hms-api/internal/middleware"
	"github.com/jwalitptl/hms-api/internal/model"
)

// Handler registers a related group of routes.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimitPerSecond float64
	RateLimitBurst     int
	RequestTimeout     time.Duration
	CORS               middleware.CORSConfig
}

type Router struct {
	engine      *gin.Engine
	auth        *middleware.AuthMiddleware
	healthH     Handler
	authH       Handler
	adminH      Handler
	patientH    Handler
	doctorH     Handler
	assignmentH Handler
	noteH       Handler
	reminderH   Handler
	metrics     *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func New(
	auth *middleware.AuthMiddleware,
	healthH, authH, adminH, patientH, doctorH, assignmentH, noteH, reminderH Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:      engine,
		auth:        auth,
		healthH:     healthH,
		authH:       authH,
		adminH:      adminH,
		patientH:    patientH,
		doctorH:     doctorH,
		assignmentH: assignmentH,
		noteH:       noteH,
		reminderH:   reminderH,
		metrics:     newRouterMetrics(),
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(config.RequestTimeout),
		middleware.CORS(config.CORS),
	)

	if config.RateLimitPerSecond > 0 {
		limiter := middleware.NewRateLimiter(config.RateLimitPerSecond, config.RateLimitBurst)
		engine.Use(limiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")

	r.healthH.RegisterRoutes(api)
	r.authH.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	{
		r.patientH.RegisterRoutes(protected)
		r.doctorH.RegisterRoutes(protected)
		r.assignmentH.RegisterRoutes(protected)
		r.noteH.RegisterRoutes(protected)
		r.reminderH.RegisterRoutes(protected)
	}

	adminOnly := api.Group("")
	adminOnly.Use(r.auth.Authenticate(), r.auth.RequireRole(model.RoleAdmin))
	{
		r.adminH.RegisterRoutes(adminOnly)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func newRouterMetrics() *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "hms_http_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hms_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
