package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Domenick1991/roomstay/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProofUpdate describes the payment-proof change applied together with a
// status swap. Exactly one of the three is used per call site: Set on
// upload, Verify on approve, Clear on reject.
type ProofUpdate struct {
	Set         bool
	FileURL     string
	SubmittedAt time.Time
	Verify      bool
	VerifiedAt  time.Time
	Clear       bool
}

// BookingQuery narrows listings; zero values mean no filter.
type BookingQuery struct {
	Status   domain.BookingStatus
	Page     int
	PageSize int
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// CompareAndSwapStatus writes newStatus (and the optional proof change)
	// only if the stored status still equals expected, returning
	// domain.ErrConflict otherwise. This is the only mutation path for a
	// booking's status.
	CompareAndSwapStatus(ctx context.Context, id int64, expected, newStatus domain.BookingStatus, proof *ProofUpdate) (*domain.Booking, error)
	ListByGuest(ctx context.Context, guestID int64, q BookingQuery) ([]domain.Booking, error)
	ListByTenant(ctx context.Context, tenantID int64, q BookingQuery) ([]domain.Booking, error)
	ListProcessingCheckedOutBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, guest_id, tenant_id, property_id, room_id, check_in, check_out, guests,
	total_amount, status, proof_file_url, proof_submitted_at, proof_verified_at, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapStorageErr(err)
	}
	defer tx.Rollback(ctx)

	// Availability was already confirmed by the catalog, but a concurrent
	// booking may have landed since. Lock the room row first: under READ
	// COMMITTED a bare count would not see another transaction's uncommitted
	// insert, so without the lock two racing creates could both pass the
	// re-check. The bookings_room_no_overlap exclusion constraint backstops
	// this at commit time.
	var lockedRoomID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, booking.RoomID).Scan(&lockedRoomID); err != nil {
		return mapStorageErr(err)
	}

	var overlapping int
	err = tx.QueryRow(ctx, `SELECT count(*) FROM bookings
		WHERE room_id = $1 AND status IN ($2, $3, $4)
		AND check_in < $5 AND check_out > $6`,
		booking.RoomID,
		domain.BookingStatusWaitingPayment, domain.BookingStatusWaitingConfirmation, domain.BookingStatusProcessing,
		booking.CheckOut, booking.CheckIn).Scan(&overlapping)
	if err != nil {
		return mapStorageErr(err)
	}
	if overlapping > 0 {
		return domain.ErrRoomUnavailable
	}

	booking.Status = domain.BookingStatusWaitingPayment
	err = tx.QueryRow(ctx, `INSERT INTO bookings (guest_id, tenant_id, property_id, room_id, check_in, check_out, guests, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		booking.GuestID, booking.TenantID, booking.PropertyID, booking.RoomID,
		booking.CheckIn, booking.CheckOut, booking.Guests, booking.TotalAmount, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return mapStorageErr(err)
	}

	return mapStorageErr(tx.Commit(ctx))
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	return scanBooking(row)
}

func (r *PGBookingRepository) CompareAndSwapStatus(ctx context.Context, id int64, expected, newStatus domain.BookingStatus, proof *ProofUpdate) (*domain.Booking, error) {
	query := `UPDATE bookings SET status=$1, updated_at=now()`
	args := []any{newStatus, id, expected}
	switch {
	case proof != nil && proof.Set:
		query += `, proof_file_url=$4, proof_submitted_at=$5, proof_verified_at=NULL`
		args = append(args, proof.FileURL, proof.SubmittedAt)
	case proof != nil && proof.Verify:
		query += `, proof_verified_at=$4`
		args = append(args, proof.VerifiedAt)
	case proof != nil && proof.Clear:
		query += `, proof_file_url=NULL, proof_submitted_at=NULL, proof_verified_at=NULL`
	}
	query += ` WHERE id=$2 AND status=$3 RETURNING ` + bookingColumns

	row := r.db.QueryRow(ctx, query, args...)
	updated, err := scanBooking(row)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// The guard matched nothing: either the booking is gone or another
	// transition won the race. Re-read to tell the two apart.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, domain.ErrConflict
}

func (r *PGBookingRepository) ListByGuest(ctx context.Context, guestID int64, q BookingQuery) ([]domain.Booking, error) {
	return r.list(ctx, `guest_id`, guestID, q)
}

func (r *PGBookingRepository) ListByTenant(ctx context.Context, tenantID int64, q BookingQuery) ([]domain.Booking, error) {
	return r.list(ctx, `tenant_id`, tenantID, q)
}

func (r *PGBookingRepository) list(ctx context.Context, ownerColumn string, ownerID int64, q BookingQuery) ([]domain.Booking, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + ownerColumn + `=$1`
	args := []any{ownerID}
	if q.Status != "" {
		query += ` AND status=$2`
		args = append(args, q.Status)
	}
	query += ` ORDER BY created_at DESC LIMIT ` + strconv.Itoa(q.PageSize) + ` OFFSET ` + strconv.Itoa((q.Page-1)*q.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (r *PGBookingRepository) ListProcessingCheckedOutBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status=$1 AND check_out <= $2`,
		domain.BookingStatusProcessing, deadline)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var fileURL *string
	var submittedAt, verifiedAt *time.Time
	err := row.Scan(&b.ID, &b.GuestID, &b.TenantID, &b.PropertyID, &b.RoomID,
		&b.CheckIn, &b.CheckOut, &b.Guests, &b.TotalAmount, &b.Status,
		&fileURL, &submittedAt, &verifiedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if fileURL != nil && submittedAt != nil {
		b.Proof = &domain.PaymentProof{FileURL: *fileURL, SubmittedAt: *submittedAt, VerifiedAt: verifiedAt}
	}
	return &b, nil
}

func scanBookings(rows pgx.Rows) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, mapStorageErr(rows.Err())
}

func mapStorageErr(err error) error {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domain.ErrUnavailable
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation:
		// The room-overlap exclusion constraint fired on commit.
		return domain.ErrRoomUnavailable
	default:
		return err
	}
}

var _ BookingRepository = (*PGBookingRepository)(nil)
