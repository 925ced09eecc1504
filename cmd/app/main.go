package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/roomstay/config"
	"github.com/Domenick1991/roomstay/internal/bootstrap"
	"github.com/Domenick1991/roomstay/internal/cache"
	"github.com/Domenick1991/roomstay/internal/db"
	"github.com/Domenick1991/roomstay/internal/kafka"
	"github.com/Domenick1991/roomstay/internal/repository"
	"github.com/Domenick1991/roomstay/internal/service/booking"
	"github.com/Domenick1991/roomstay/internal/service/catalog"
	"github.com/Domenick1991/roomstay/internal/storage"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(cfg.Database); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	pool, err := db.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.PropertiesCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	blobs, err := storage.NewLocalStore(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		log.Fatalf("init blob store: %v", err)
	}

	propertyRepo := repository.NewPropertyRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	catalogService := catalog.NewCatalogService(propertyRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		propertyRepo,
		redisCache,
		producer,
		cfg.Kafka.NotificationsTopic,
		booking.WithReminderTTL(time.Duration(cfg.Booking.ReminderThrottleMinutes)*time.Minute),
	)

	if err := bootstrap.Run(ctx, cfg, bookingService, catalogService, blobs); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
