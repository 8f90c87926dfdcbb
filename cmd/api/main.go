package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/brightsmile/clinic-api/internal/config"
	bookinghandler "github.com/brightsmile/clinic-api/internal/handler/booking"
	"github.com/brightsmile/clinic-api/internal/handler/dashboard"
	"github.com/brightsmile/clinic-api/internal/handler/health"
	servicehandler "github.com/brightsmile/clinic-api/internal/handler/service"
	"github.com/brightsmile/clinic-api/internal/middleware"
	"github.com/brightsmile/clinic-api/internal/repository/postgres"
	"github.com/brightsmile/clinic-api/internal/router"
	analyticsService "github.com/brightsmile/clinic-api/internal/service/analytics"
	bookingService "github.com/brightsmile/clinic-api/internal/service/booking"
	catalogService "github.com/brightsmile/clinic-api/internal/service/catalog"
	"github.com/brightsmile/clinic-api/pkg/auth"
	"github.com/brightsmile/clinic-api/pkg/event"
	"github.com/brightsmile/clinic-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	serviceRepo := postgres.NewServiceRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	appMetrics := metrics.NewMetrics("clinic", "api")

	catalogSvc := catalogService.NewService(serviceRepo)
	bookingSvc := bookingService.NewService(bookingRepo, serviceRepo, appMetrics)
	analyticsSvc := analyticsService.NewService(analyticsRepo)

	verifier := auth.NewVerifier(cfg.JWT.Secret)

	trackerLogger := log.With().Str("component", "event_tracker").Logger()
	tracker := event.NewTrackerMiddleware(outboxRepo, &trackerLogger)

	serviceHandler := servicehandler.NewHandler(catalogSvc)
	bookingHandler := bookinghandler.NewHandler(bookingSvc)
	dashboardHandler := dashboard.NewHandler(analyticsSvc)
	healthHandler := health.NewHandler(db)

	r := router.NewRouter(
		verifier,
		serviceHandler,
		bookingHandler,
		dashboardHandler,
		healthHandler,
		tracker,
		router.Config{
			RateLimit:  rate.Limit(cfg.Server.RateLimit),
			RateBurst:  cfg.Server.RateBurst,
			CORSConfig: middleware.DefaultCORSConfig(),
			Timeout:    time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
