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

	"github.com/nziladragao/agenda-api/internal/config"
	"github.com/nziladragao/agenda-api/internal/handler"
	appointmentHandler "github.com/nziladragao/agenda-api/internal/handler/appointment"
	clientHandler "github.com/nziladragao/agenda-api/internal/handler/client"
	notificationHandler "github.com/nziladragao/agenda-api/internal/handler/notification"
	"github.com/nziladragao/agenda-api/internal/middleware"
	"github.com/nziladragao/agenda-api/internal/repository/postgres"
	"github.com/nziladragao/agenda-api/internal/router"
	appointmentService "github.com/nziladragao/agenda-api/internal/service/appointment"
	clientService "github.com/nziladragao/agenda-api/internal/service/client"
	notificationService "github.com/nziladragao/agenda-api/internal/service/notification"
	slotService "github.com/nziladragao/agenda-api/internal/service/slot"
	"github.com/nziladragao/agenda-api/pkg/auth"
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

	clientRepo := postgres.NewClientRepository(db)
	slotRepo := postgres.NewSlotRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	clientSvc := clientService.NewService(clientRepo)
	slotSvc := slotService.NewService(slotRepo)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo,
		clientRepo,
		slotRepo,
		notificationRepo,
		slotSvc,
	)
	notificationSvc := notificationService.NewService(notificationRepo)

	validator := auth.NewTokenValidator(cfg.JWT.Secret)
	authMiddleware := middleware.NewAuthMiddleware(validator)

	h := handler.NewHandler(db)
	clientH := clientHandler.NewHandler(clientSvc)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc, slotSvc)
	notificationH := notificationHandler.NewHandler(notificationSvc)

	r := router.NewRouter(
		authMiddleware,
		clientH,
		appointmentH,
		notificationH,
		h,
		router.RouterConfig{
			RateLimit: rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst: cfg.RateLimit.Burst,
			CORSConfig: corsConfig(cfg.Security),
			MetricsPrefix: "agenda_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

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

func corsConfig(sec config.SecurityConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(sec.AllowedOrigins) > 0 {
		cors.AllowOrigins = sec.AllowedOrigins
	}
	if len(sec.AllowedMethods) > 0 {
		cors.AllowMethods = sec.AllowedMethods
	}
	if len(sec.AllowedHeaders) > 0 {
		cors.AllowHeaders = sec.AllowedHeaders
	}
	return cors
}
