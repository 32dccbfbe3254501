// Command server starts the marketplace HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/config"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/events"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/limiter"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/logger"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/metrics"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/migrate"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/repository/postgres"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/server/httpapi"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "optional env-style config file")
	flag.Parse()

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	boot, _ := zap.NewProduction()
	cfg, err := config.Load(*configFile)
	if err != nil {
		boot.Fatal("load config", zap.Error(err))
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		boot.Fatal("init logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}
	log.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.HTTPAddr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
		return err
	}

	db, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	// Repositories
	users := postgres.NewUserRepo(db)
	listings := postgres.NewListingRepo(db)
	requests := postgres.NewRequestRepo(db)
	sales := postgres.NewSaleRepo(db)
	favorites := postgres.NewFavoriteRepo(db)
	notifications := postgres.NewNotificationRepo(db)

	lim := limiter.NewPG(db.Pool, limiter.Settings{
		Window:   cfg.LoginWindow,
		MaxFails: cfg.LoginMaxFails,
		BlockFor: cfg.LoginBlockFor,
	})
	m := metrics.New("marketplace")

	// Events: NATS when configured, otherwise the in-process bus.
	deliverer := events.NewDeliverer(notifications, requests, log)
	var pub events.Publisher
	if cfg.NATSURL != "" {
		nc, err := events.Connect(cfg.NATSURL, "marketplace-api", log)
		if err != nil {
			return err
		}
		defer nc.Close()
		sub, err := events.Subscribe(nc, cfg.NATSSubjectPrefix, deliverer.Handle, log)
		if err != nil {
			return err
		}
		defer sub.Close()
		pub = events.NewNATSPublisher(nc, cfg.NATSSubjectPrefix, log)
	} else {
		bus := events.NewBus(cfg.EventBuffer, deliverer.Handle, log)
		// Stopped by defer, after srv.Shutdown has drained in-flight requests.
		defer bus.Start()()
		pub = bus
	}

	// Services
	svc := httpapi.Services{
		Auth:     service.NewAuthService(users, []byte(cfg.JWTSecret), cfg.AccessTTL, lim, log),
		Listings: service.NewListingService(db, listings),
		Purchases: service.NewPurchaseService(service.PurchaseDeps{
			UoW:           db,
			Listings:      listings,
			Requests:      requests,
			Sales:         sales,
			Notifications: notifications,
			Publisher:     pub,
			Metrics:       m,
			Logger:        log,
		}),
		Sales:         service.NewSalesService(sales),
		Favorites:     service.NewFavoriteService(favorites),
		Notifications: service.NewNotificationService(notifications),
	}

	go func() {
		if err := m.Serve(ctx, cfg.MetricsAddr, log); err != nil {
			log.Error("metrics server", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(svc, []byte(cfg.JWTSecret), log, m),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("graceful shutdown", zap.Error(err))
			_ = srv.Close()
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
