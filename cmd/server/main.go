package main

import (
	"context"
	"errors"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"commission-service/internal/auth"
	"commission-service/internal/cache"
	"commission-service/internal/config"
	"commission-service/internal/controllers/http"
	"commission-service/internal/infra"
	"commission-service/internal/infra/email"
	mmysql "commission-service/internal/infra/mysql"
	"commission-service/internal/infra/payment"
	"commission-service/internal/infra/rabbitmq"
	"commission-service/internal/logging"
	"commission-service/internal/notification"
	"commission-service/internal/pricing"
	"commission-service/internal/ratelimit"
	mysqlrepo "commission-service/internal/repository/mysql"
	"commission-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := mmysql.Open(mmysql.Config{
		Host:     cfg.MySQLHost,
		Port:     cfg.MySQLPort,
		User:     cfg.MySQLUser,
		Password: cfg.MySQLPassword,
		Database: cfg.MySQLDatabase,
	})
	if err != nil {
		logger.Fatalw("db: connect", "error", err)
	}
	if err := mmysql.Migrate(db); err != nil {
		logger.Fatalw("db: migrate", "error", err)
	}

	store, closeStore := newStore(cfg, logger)
	defer closeStore()

	fallback, _ := cfg.FallbackRate()
	rates := pricing.NewRateProvider(
		infra.NewExchangeClient(cfg.ExchangeRateURL, cfg.ProviderTimeout),
		store, cfg.ExchangeRateTTL, fallback, logger,
	)

	payments := payment.NewRegistry(
		payment.NewPayPal(payment.PayPalConfig{
			BaseURL:  cfg.PayPalBaseURL,
			ClientID: cfg.PayPalClientID,
			Secret:   cfg.PayPalSecret,
			Timeout:  cfg.ProviderTimeout,
		}),
		payment.NewPaystack(payment.PaystackConfig{
			BaseURL:   cfg.PaystackBaseURL,
			SecretKey: cfg.PaystackSecretKey,
			Timeout:   cfg.ProviderTimeout,
		}),
	)

	sinks := notification.Multi{
		notification.NewEmailSink(email.NewMailer(email.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}), cfg.PublicBaseURL, cfg.AdminNotifyEmail),
	}
	if cfg.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			logger.Fatalw("failed to init publisher", "error", err)
		}
		defer publisher.Close()
		sinks = append(sinks, notification.NewEventSink(publisher))
	} else {
		logger.Infow("RABBITMQ_URL not set, lifecycle events disabled")
	}

	s := services.NewOrderService(services.Deps{
		Orders:        mysqlrepo.NewOrderRepository(db),
		Testimonials:  mysqlrepo.NewTestimonialRepository(db),
		Pricing:       pricing.NewEngine(rates),
		Gate:          ratelimit.NewGate(store, cfg.RateLimitWindow, cfg.RateLimitQuota, logger),
		Payments:      payments,
		Sink:          sinks,
		Logger:        logger,
		PublicBaseURL: cfg.PublicBaseURL,
	})

	handler := http.NewHandler(s, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), http.RequestLogger(logger))
	handler.RegisterRoutes(r, http.AdminAuth(auth.NewJWTService(cfg.AdminJWTSecret)))

	srv := &nethttp.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infow("starting commission service", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Fatalw("server run", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("http shutdown", "error", err)
	}
	s.Wait()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// newStore backs the rate gate and exchange-rate cache with redis when
// REDIS_ADDR is set, so several instances share one quota.
func newStore(cfg *config.Config, logger *zap.SugaredLogger) (cache.Store, func()) {
	if cfg.RedisAddr == "" {
		logger.Infow("REDIS_ADDR not set, using in-process cache")
		store := cache.NewMemoryStore()
		return store, store.Close
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DB:           0,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warnw("redis unreachable, cache calls will fail open", "addr", cfg.RedisAddr, "error", err)
	}
	return cache.NewRedisStore(redisClient, "commissions:"), func() { redisClient.Close() }
}
