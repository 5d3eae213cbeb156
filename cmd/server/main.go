package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/petes-emporium/pet-store/internal/adapter/messaging/nats"
	"github.com/petes-emporium/pet-store/internal/adapter/payment/stripe"
	"github.com/petes-emporium/pet-store/internal/adapter/repository/cache"
	"github.com/petes-emporium/pet-store/internal/adapter/repository/mongodb"
	"github.com/petes-emporium/pet-store/internal/adapter/storage/s3"
	"github.com/petes-emporium/pet-store/internal/config"
	"github.com/petes-emporium/pet-store/internal/handler"
	"github.com/petes-emporium/pet-store/internal/mailer"
	"github.com/petes-emporium/pet-store/internal/pet/usecase"
	"github.com/petes-emporium/pet-store/internal/platform/logger"
	"github.com/petes-emporium/pet-store/internal/platform/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "pet-store")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting pet-store", zap.String("port", cfg.HTTPPort))

	ctx := context.Background()

	tp, err := tracer.Init(ctx, "pet-store")
	if err != nil {
		log.Fatal("failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	petRepo := mongodb.NewPetRepository(mongoClient.Database(cfg.MongoDB))
	if err := petRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("failed to create indexes", zap.Error(err))
	}

	storage, err := s3.NewStorage(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL, log)
	if err != nil {
		log.Fatal("failed to initialize object storage", zap.Error(err))
	}

	petCache, err := cache.NewPetCache(cfg.RedisAddress)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = petCache.Close() }()

	publisher, err := nats.NewPublisher(cfg.NATSURL)
	if err != nil {
		log.Fatal("failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()

	notifier := mailer.New(cfg.MailgunAPIKey, cfg.MailgunFrom, cfg.AdminEmail, log)
	gateway := stripe.NewGateway(cfg.StripeSecretKey)

	avatars := usecase.NewAvatarUsecase(storage, log)
	pets := usecase.NewPetUsecase(petRepo, storage, petCache, publisher, avatars, log)
	checkout := usecase.NewCheckoutUsecase(petRepo, gateway, notifier, petCache, publisher, cfg.PublicBaseURL, log)

	router := handler.NewRouter(handler.RouterConfig{
		Pets:                 pets,
		Checkout:             checkout,
		Storage:              storage,
		Logger:               log,
		TemplatesGlob:        "web/templates/*.html",
		AppEnv:               cfg.AppEnv,
		StripePublishableKey: cfg.StripePublishableKey,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()
	log.Info("http server listening", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
}
