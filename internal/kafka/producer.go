package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// BookingEvent is the wire payload for every lifecycle notification.
// Kind mirrors the action that produced it: booking_created, proof_uploaded,
// booking_approved, booking_rejected, booking_cancelled, payment_reminder,
// booking_completed.
type BookingEvent struct {
	Kind        string    `json:"kind"`
	BookingID   int64     `json:"booking_id"`
	GuestID     int64     `json:"guest_id"`
	TenantID    int64     `json:"tenant_id"`
	PropertyID  int64     `json:"property_id"`
	Status      string    `json:"status"`
	TotalAmount string    `json:"total_amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
