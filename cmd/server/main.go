package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/database"
	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/router"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}

	txRunner := database.NewTxRunner(db)
	bookingRepo := repository.NewBookingRepo(db)
	showSeatRepo := repository.NewShowSeatRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	showRepo := repository.NewShowRepo(db)

	publisher := queue.NewPublisher(cfg.RabbitURL)
	go queue.StartBookingLogConsumer()

	lifecycle := service.NewBookingLifecycle(txRunner, bookingRepo, showSeatRepo, publisher, cfg.ReleaseSeatsOnCancel)
	exchange := service.NewReservationExchange(txRunner, showSeatRepo, publisher)
	cleanup := service.NewCleanup(txRunner, paymentRepo, bookingRepo, showSeatRepo, showRepo)

	bookingHandler := handler.NewBookingHandler(lifecycle, exchange, bookingRepo, showRepo)
	maintHandler := handler.NewMaintenanceHandler(cleanup)

	rdb := config.NewRedisClient()
	if rdb == nil {
		logrus.Warn("redis unavailable; rate limiting disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e, bookingHandler, maintHandler, limiter)

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
