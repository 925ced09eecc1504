package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/roomstay/config"
	"github.com/Domenick1991/roomstay/internal/cache"
	"github.com/Domenick1991/roomstay/internal/db"
	"github.com/Domenick1991/roomstay/internal/email"
	"github.com/Domenick1991/roomstay/internal/kafka"
	"github.com/Domenick1991/roomstay/internal/repository"
	"github.com/Domenick1991/roomstay/internal/service/booking"
	kafkaGo "github.com/segmentio/kafka-go"
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

	pool, err := db.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.PropertiesCacheTTLSeconds)*time.Second)

	propertyRepo := repository.NewPropertyRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	bookingService := booking.NewBookingService(
		bookingRepo,
		propertyRepo,
		redisCache,
		producer,
		cfg.Kafka.NotificationsTopic,
		booking.WithReminderTTL(time.Duration(cfg.Booking.ReminderThrottleMinutes)*time.Minute),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweep := time.NewTicker(time.Duration(cfg.Worker.CompletionSweepMinutes) * time.Minute)
	defer sweep.Stop()

	for {
		select {
		case <-sweep.C:
			completed, err := bookingService.CompleteFinishedStays(ctx)
			if err != nil {
				log.Printf("complete finished stays error: %v", err)
				continue
			}
			if len(completed) > 0 {
				log.Printf("completed %d bookings", len(completed))
			}
		case <-ctx.Done():
			log.Printf("shutting down")
			return
		}
	}
}
