package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/roomstay/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send %s notification for booking %d (guest %d, tenant %d, status %s)\n",
		event.Kind, event.BookingID, event.GuestID, event.TenantID, event.Status)
	return nil
}
