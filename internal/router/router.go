package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	bookinghandler "github.com/brightsmile/clinic-api/internal/handler/booking"
	"github.com/brightsmile/clinic-api/internal/handler/dashboard"
	"github.com/brightsmile/clinic-api/internal/handler/health"
	servicehandler "github.com/brightsmile/clinic-api/internal/handler/service"
	"github.com/brightsmile/clinic-api/internal/middleware"
	"github.com/brightsmile/clinic-api/pkg/auth"
	"github.com/brightsmile/clinic-api/pkg/event"
)

// adminRoles may mutate the catalog and drive booking transitions.
var adminRoles = []string{"admin", "moderator"}

type Config struct {
	RateLimit  rate.Limit
	RateBurst  int
	CORSConfig middleware.CORSConfig
	Timeout    time.Duration
}

type Router struct {
	engine     *gin.Engine
	verifier   auth.Verifier
	serviceH   *servicehandler.Handler
	bookingH   *bookinghandler.Handler
	dashboardH *dashboard.Handler
	healthH    *health.Handler
	tracker    *event.TrackerMiddleware
	metrics    *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func NewRouter(
	verifier auth.Verifier,
	serviceH *servicehandler.Handler,
	bookingH *bookinghandler.Handler,
	dashboardH *dashboard.Handler,
	healthH *health.Handler,
	tracker *event.TrackerMiddleware,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:     engine,
		verifier:   verifier,
		serviceH:   serviceH,
		bookingH:   bookingH,
		dashboardH: dashboardH,
		healthH:    healthH,
		tracker:    tracker,
		metrics:    newRouterMetrics(),
	}

	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorLogger(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
		middleware.CORS(config.CORSConfig),
	)

	if config.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(limiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.healthH.RegisterRoutes(api)

	// Public surface: catalog reads and intake.
	r.serviceH.RegisterPublicRoutes(api)
	r.bookingH.RegisterPublicRoutes(api, r.tracker)

	// Admin surface: everything that mutates or aggregates.
	admin := api.Group("")
	admin.Use(
		middleware.Authenticate(r.verifier),
		middleware.RequireRole(adminRoles...),
	)
	r.serviceH.RegisterAdminRoutes(admin, r.tracker)
	r.bookingH.RegisterAdminRoutes(admin, r.tracker)
	r.dashboardH.RegisterRoutes(admin)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func newRouterMetrics() *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "clinic_api_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clinic_api_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
