package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/joho/godotenv"
	"github.com/manify/cram-eats/config"
	"github.com/manify/cram-eats/internal/auth"
	"github.com/manify/cram-eats/internal/cart"
	"github.com/manify/cram-eats/internal/domain"
	"github.com/manify/cram-eats/internal/notification"
	"github.com/manify/cram-eats/internal/order"
	"github.com/manify/cram-eats/internal/storage"
	transport "github.com/manify/cram-eats/internal/transport/http"
	"github.com/manify/cram-eats/internal/transport/http/handler"
	"github.com/manify/cram-eats/pkg/kafka"
	"github.com/manify/cram-eats/pkg/telemetry"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := telemetry.InitTracer(ctx, "cram-eats-core", cfg.Env)
	if err != nil {
		log.Fatalf("failed to init tracer: %v", err)
	}

	logger, err := config.NewLogger(config.LoggerConfig{Level: "info", Env: cfg.Env})
	if err != nil {
		log.Fatalf("error creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := storage.NewRedisStore(cfg.Redis.Addr)
	if err != nil {
		log.Fatalf("error connecting to redis: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("error closing redis", zap.Error(err))
		}
	}()

	cartStore, err := cart.NewStore(ctx, store, logger)
	if err != nil {
		log.Fatalf("error building cart store: %v", err)
	}

	notificationStore, err := notification.NewStore(ctx, store, logger)
	if err != nil {
		log.Fatalf("error building notification store: %v", err)
	}

	session := auth.NewSession()
	orderClient := order.NewClient(cfg.OrderAPI.BaseURL, cfg.OrderAPI.Timeout, logger)
	orderService := order.NewService(cartStore, orderClient, session, notificationStore, logger, order.Options{
		DeliveryFee:  domain.Cents(cfg.Delivery.FeeCents),
		PlaceTimeout: cfg.OrderAPI.PlaceTimeout,
	})

	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumerGroup(
			cfg.Kafka.Brokers,
			cfg.Kafka.GroupID,
			[]string{cfg.Kafka.Topic},
			order.StatusEventHandler(orderService, logger),
			logger,
		)
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Error("status consumer stopped", zap.Error(err))
			}
		}()
	}

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Limiter.Max,
		Expiration: cfg.Limiter.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Try again later.",
			})
		},
	}))

	handlers := &transport.Handlers{
		Cart:         handler.NewCartHandler(cartStore, logger),
		Order:        handler.NewOrderHandler(orderService, logger),
		Notification: handler.NewNotificationHandler(notificationStore, logger),
	}
	transport.RegisterRoutes(app, handlers, cfg.Auth.AccessSecret, session)

	logger.Info("ordering core started", zap.String("port", cfg.HTTP.Port))

	go func() {
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("error listening on %v: %v\n", cfg.HTTP.Port, err)
		}
	}()

	<-ctx.Done()

	log.Println("shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error shutting down HTTP app: %v\n", err)
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Printf("error shutting down telemetry: %v\n", err)
	}
}
