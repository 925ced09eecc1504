package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/Domenick1991/roomstay/internal/domain"
	"github.com/Domenick1991/roomstay/internal/kafka"
	"github.com/Domenick1991/roomstay/internal/proof"
	"github.com/Domenick1991/roomstay/internal/repository"
	"github.com/Domenick1991/roomstay/internal/storage"
	"github.com/Domenick1991/roomstay/internal/transition"
	"github.com/shopspring/decimal"
)

// maxAttempts bounds the read-decide-swap retry loop. A conflict means
// another transition committed between our read and write; after the bound
// the caller observes ErrConflict (or ErrUnavailable when the ledger timed
// out on the last attempt).
const maxAttempts = 3

const eventPaymentReminder = "payment_reminder"

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	UploadPaymentProof(ctx context.Context, bookingID int64, actor domain.Actor, attachment storage.StoredObject) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error)
	ApproveBooking(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error)
	RejectBooking(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error)
	SendReminder(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	CompleteFinishedStays(ctx context.Context) ([]domain.Booking, error)
	ListGuestBookings(ctx context.Context, actor domain.Actor, q repository.BookingQuery) ([]domain.Booking, error)
	ListTenantOrders(ctx context.Context, actor domain.Actor, q repository.BookingQuery) ([]domain.Booking, error)
}

type Cache interface {
	AcquireReminderSlot(ctx context.Context, bookingID int64, ttl time.Duration) (bool, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	properties         repository.PropertyRepository
	cache              Cache
	producer           Producer
	notificationsTopic string
	reminderTTL        time.Duration
}

type CreateBookingInput struct {
	Actor      domain.Actor
	PropertyID int64
	RoomID     int64
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
}

type BookingServiceOption func(*BookingService)

func WithReminderTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.reminderTTL = ttl
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	properties repository.PropertyRepository,
	cache Cache,
	producer Producer,
	notificationsTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:           bookings,
		properties:         properties,
		cache:              cache,
		producer:           producer,
		notificationsTopic: notificationsTopic,
		reminderTTL:        time.Hour,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.Actor.Role != domain.RoleGuest {
		return nil, domain.ErrWrongRole
	}
	if input.Guests <= 0 {
		return nil, fmt.Errorf("%w: guests must be positive", domain.ErrValidation)
	}
	if !input.CheckIn.Before(input.CheckOut) {
		return nil, fmt.Errorf("%w: check-in must precede check-out", domain.ErrValidation)
	}

	property, err := s.properties.GetByID(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	room, err := s.properties.GetRoom(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}
	if room.PropertyID != property.ID {
		return nil, fmt.Errorf("%w: room does not belong to the property", domain.ErrValidation)
	}
	if room.Capacity > 0 && input.Guests > room.Capacity {
		return nil, fmt.Errorf("%w: room sleeps at most %d guests", domain.ErrValidation, room.Capacity)
	}

	available, err := s.properties.IsRoomAvailable(ctx, input.RoomID, input.CheckIn, input.CheckOut)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domain.ErrRoomUnavailable
	}

	booking := &domain.Booking{
		GuestID:    input.Actor.ID,
		TenantID:   property.TenantID,
		PropertyID: property.ID,
		RoomID:     room.ID,
		CheckIn:    input.CheckIn,
		CheckOut:   input.CheckOut,
		Guests:     input.Guests,
	}
	booking.TotalAmount = room.BasePrice.Mul(decimal.NewFromInt(int64(booking.Nights())))

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.notify(ctx, "booking_created", booking)
	return booking, nil
}

func (s *BookingService) UploadPaymentProof(ctx context.Context, bookingID int64, actor domain.Actor, attachment storage.StoredObject) (*domain.Booking, error) {
	if err := proof.Validate(attachment); err != nil {
		return nil, err
	}
	update := &repository.ProofUpdate{Set: true, FileURL: attachment.URL, SubmittedAt: time.Now().UTC()}
	return s.runAction(ctx, bookingID, actor, domain.ActionUploadProof, update, "proof_uploaded")
}

func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error) {
	return s.runAction(ctx, bookingID, actor, domain.ActionCancel, nil, "booking_cancelled")
}

func (s *BookingService) ApproveBooking(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error) {
	update := &repository.ProofUpdate{Verify: true, VerifiedAt: time.Now().UTC()}
	return s.runAction(ctx, bookingID, actor, domain.ActionApprove, update, "booking_approved")
}

// RejectBooking sends the booking back to WAITING_PAYMENT and discards the
// submitted proof: the guest must upload a fresh one.
func (s *BookingService) RejectBooking(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error) {
	update := &repository.ProofUpdate{Clear: true}
	return s.runAction(ctx, bookingID, actor, domain.ActionReject, update, "booking_rejected")
}

func (s *BookingService) SendReminder(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error) {
	return s.runAction(ctx, bookingID, actor, domain.ActionRemind, nil, eventPaymentReminder)
}

// CompleteBooking is invoked by the scheduler once the checkout date has
// passed; it carries the system role and bypasses ownership checks.
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	actor := domain.Actor{Role: domain.RoleSystem}
	return s.runAction(ctx, bookingID, actor, domain.ActionComplete, nil, "booking_completed")
}

// CompleteFinishedStays sweeps PROCESSING bookings whose checkout has passed.
// Each booking completes independently; one losing a race does not stop the
// sweep.
func (s *BookingService) CompleteFinishedStays(ctx context.Context) ([]domain.Booking, error) {
	due, err := s.bookings.ListProcessingCheckedOutBefore(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	completed := make([]domain.Booking, 0, len(due))
	for _, b := range due {
		updated, err := s.CompleteBooking(ctx, b.ID)
		if err != nil {
			log.Printf("complete booking %d: %v", b.ID, err)
			continue
		}
		completed = append(completed, *updated)
	}
	return completed, nil
}

func (s *BookingService) ListGuestBookings(ctx context.Context, actor domain.Actor, q repository.BookingQuery) ([]domain.Booking, error) {
	if actor.Role != domain.RoleGuest {
		return nil, domain.ErrWrongRole
	}
	return s.bookings.ListByGuest(ctx, actor.ID, q)
}

func (s *BookingService) ListTenantOrders(ctx context.Context, actor domain.Actor, q repository.BookingQuery) ([]domain.Booking, error) {
	if actor.Role != domain.RoleTenant {
		return nil, domain.ErrWrongRole
	}
	return s.bookings.ListByTenant(ctx, actor.ID, q)
}

// runAction is the protocol every lifecycle action follows: load the
// booking, check the actor is a party to it, ask the transition engine,
// then compare-and-swap against the status just read. A conflicting
// concurrent transition (or a ledger timeout) restarts the sequence, so the
// loser re-evaluates its action against whatever status the winner wrote.
func (s *BookingService) runAction(ctx context.Context, bookingID int64, actor domain.Actor, action domain.Action, update *repository.ProofUpdate, eventKind string) (*domain.Booking, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		current, err := s.bookings.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, domain.ErrUnavailable) {
				lastErr = err
				continue
			}
			return nil, err
		}

		if err := authorize(current, actor); err != nil {
			return nil, err
		}

		// complete is only legal once the stay is over, regardless of who
		// calls it.
		if action == domain.ActionComplete && time.Now().UTC().Before(current.CheckOut) {
			return nil, domain.ErrInvalidStatus
		}

		next, err := transition.Decide(current.Status, actor.Role, action)
		if err != nil {
			return nil, err
		}

		if next == current.Status {
			// Side-effect-only action; nothing to persist.
			s.dispatch(ctx, eventKind, current)
			return current, nil
		}

		updated, err := s.bookings.CompareAndSwapStatus(ctx, bookingID, current.Status, next, update)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrUnavailable) {
				lastErr = err
				continue
			}
			return nil, err
		}

		s.dispatch(ctx, eventKind, updated)
		return updated, nil
	}

	if errors.Is(lastErr, domain.ErrUnavailable) {
		return nil, domain.ErrUnavailable
	}
	return nil, domain.ErrConflict
}

func authorize(b *domain.Booking, actor domain.Actor) error {
	switch actor.Role {
	case domain.RoleGuest:
		if actor.ID != b.GuestID {
			return domain.ErrUnauthorized
		}
	case domain.RoleTenant:
		if actor.ID != b.TenantID {
			return domain.ErrUnauthorized
		}
	case domain.RoleSystem:
		// Scheduler acts on any booking.
	default:
		return domain.ErrWrongRole
	}
	return nil
}

// dispatch fires the post-commit side effect. Failures are logged, never
// propagated: the transition has already committed.
func (s *BookingService) dispatch(ctx context.Context, kind string, b *domain.Booking) {
	if kind == eventPaymentReminder && s.cache != nil {
		ok, err := s.cache.AcquireReminderSlot(ctx, b.ID, s.reminderTTL)
		if err != nil {
			log.Printf("reminder throttle for booking %d: %v", b.ID, err)
		} else if !ok {
			return
		}
	}
	s.notify(ctx, kind, b)
}

func (s *BookingService) notify(ctx context.Context, kind string, b *domain.Booking) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Kind:        kind,
		BookingID:   b.ID,
		GuestID:     b.GuestID,
		TenantID:    b.TenantID,
		PropertyID:  b.PropertyID,
		Status:      string(b.Status),
		TotalAmount: b.TotalAmount.String(),
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, strconv.FormatInt(b.ID, 10), event); err != nil {
		log.Printf("publish %s event for booking %d: %v", kind, b.ID, err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
