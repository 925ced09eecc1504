package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusWaitingPayment      BookingStatus = "WAITING_PAYMENT"
	BookingStatusWaitingConfirmation BookingStatus = "WAITING_CONFIRMATION"
	BookingStatusProcessing          BookingStatus = "PROCESSING"
	BookingStatusCancelled           BookingStatus = "CANCELLED"
	BookingStatusCompleted           BookingStatus = "COMPLETED"
)

// IsTerminal reports whether no further transitions are possible from s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}

// PaymentProof is the guest-submitted evidence of payment. VerifiedAt is set
// when the tenant approves the booking.
type PaymentProof struct {
	FileURL     string
	SubmittedAt time.Time
	VerifiedAt  *time.Time
}

type Booking struct {
	ID          int64
	GuestID     int64
	TenantID    int64
	PropertyID  int64
	RoomID      int64
	CheckIn     time.Time
	CheckOut    time.Time
	Guests      int
	TotalAmount decimal.Decimal
	Status      BookingStatus
	Proof       *PaymentProof
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Nights returns the number of nights between check-in and check-out.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}
