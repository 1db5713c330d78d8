package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quickcart-be/internal/api"
	"quickcart-be/internal/auth"
	"quickcart-be/internal/category"
	"quickcart-be/internal/config"
	"quickcart-be/internal/db"
	"quickcart-be/internal/identity"
	"quickcart-be/internal/imagehost"
	"quickcart-be/internal/logger"
	"quickcart-be/internal/mailer"
	"quickcart-be/internal/messaging"
	"quickcart-be/internal/metrics"
	"quickcart-be/internal/middleware"
	"quickcart-be/internal/order"
	"quickcart-be/internal/product"
	"quickcart-be/internal/review"
	"quickcart-be/internal/seller"
	"quickcart-be/internal/stats"
	"quickcart-be/internal/telemetry"
	"quickcart-be/internal/user"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc      = db.NewDatabase
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer flush(log, "tracer", shutdownTracer)

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider()
	if err != nil {
		return fmt.Errorf("init meter: %w", err)
	}
	defer flush(log, "meter", shutdownMeter)

	database, err := initDBFunc(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	log.Info("Database connection established")

	handler, closeApp, err := newServer(cfg, database, metricsHandler)
	if err != nil {
		return err
	}
	defer closeApp()

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 server running", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func flush(log *zap.Logger, name string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Warn("telemetry shutdown failed", zap.String("provider", name), zap.Error(err))
	}
}

// newServer wires every service onto database and returns the root handler with a
// func releasing background resources (rate limiter, Kafka writer).
func newServer(cfg *config.Config, database *sql.DB, metricsHandler http.Handler) (http.Handler, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	rec, err := metrics.New(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("init metrics: %w", err)
	}

	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return nil, nil, err
	}

	outbound := &http.Client{
		Timeout:   30 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	var transport mailer.Transport = mailer.LogTransport{}
	if cfg.MailRelayURL != "" {
		transport = mailer.NewRelayTransport(cfg.MailRelayURL, outbound)
	}
	mail := mailer.New(transport, cfg.AppBaseURL, cfg.MailFrom)

	// A nil *Producer must not end up inside the interface.
	var events order.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := messaging.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		events = producer
		closers = append(closers, func() {
			if err := producer.Close(); err != nil {
				logger.L().Warn("failed to close kafka writer", zap.Error(err))
			}
		})
	}

	userSvc := user.NewService(user.NewRepository(database), mail)
	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo, rec)

	h := api.NewHandler(api.Deps{
		Users:      userSvc,
		Products:   productSvc,
		Categories: category.NewService(category.NewRepository(database)),
		Orders:     order.NewService(order.NewRepository(database), productRepo, events, rec),
		Reviews:    review.NewService(review.NewRepository(database)),
		Sellers:    seller.NewService(seller.NewRepository(database)),
		Stats:      stats.NewService(stats.NewRepository(database)),

		Tokens:   tokens,
		Identity: identity.NewFirebaseVerifier(cfg.FirebaseProjectID, outbound),
		Images:   imagehost.New(cfg.ImgbbURL, cfg.ImgbbAPIKey, outbound),
		DB:       database,

		Production:          cfg.IsProduction(),
		TrustClientIdentity: cfg.TrustClientIdentity,
	})

	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey)
	closers = append(closers, limiter.Close)

	router := setupRouter(h.Routes(telemetry.WithHTTPRoute), metricsHandler)

	chain := middleware.Chain(router,
		middleware.Recover,
		logger.RequestIDMiddleware,
		middleware.LoggingMiddleware,
		middleware.CORS(cfg.CORSOrigins),
		middleware.Session(tokens, userSvc),
		limiter.Middleware,
		middleware.Guard,
	)

	return otelhttp.NewHandler(chain, "quickcart-be"), closeAll, nil
}

func setupRouter(apiHandler, metricsHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
	mux.Handle("/", apiHandler)
	return mux
}
