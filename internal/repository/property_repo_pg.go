package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/roomstay/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PropertySearch filters the public property listing; zero values match all.
type PropertySearch struct {
	City     string
	CheckIn  time.Time
	CheckOut time.Time
}

type PropertyRepository interface {
	List(ctx context.Context, search PropertySearch) ([]domain.Property, error)
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	GetRoom(ctx context.Context, roomID int64) (*domain.Room, error)
	ListRooms(ctx context.Context, propertyID int64) ([]domain.Room, error)
	IsRoomAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error)
}

type PGPropertyRepository struct {
	db *pgxpool.Pool
}

func NewPropertyRepository(db *pgxpool.Pool) PropertyRepository {
	return &PGPropertyRepository{db: db}
}

const propertyColumns = `id, tenant_id, name, city, address, created_at, updated_at`
const roomColumns = `id, property_id, name, capacity, base_price, created_at, updated_at`

func (r *PGPropertyRepository) List(ctx context.Context, search PropertySearch) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties`
	args := []any{}
	if search.City != "" {
		query += ` WHERE city ILIKE $1`
		args = append(args, search.City)
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	defer rows.Close()

	properties := make([]domain.Property, 0)
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.City, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, mapStorageErr(err)
		}
		properties = append(properties, p)
	}
	return properties, mapStorageErr(rows.Err())
}

func (r *PGPropertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	row := r.db.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id=$1`, id)
	var p domain.Property
	if err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.City, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapStorageErr(err)
	}
	return &p, nil
}

func (r *PGPropertyRepository) GetRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	row := r.db.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id=$1`, roomID)
	var room domain.Room
	if err := row.Scan(&room.ID, &room.PropertyID, &room.Name, &room.Capacity, &room.BasePrice, &room.CreatedAt, &room.UpdatedAt); err != nil {
		return nil, mapStorageErr(err)
	}
	return &room, nil
}

func (r *PGPropertyRepository) ListRooms(ctx context.Context, propertyID int64) ([]domain.Room, error) {
	rows, err := r.db.Query(ctx, `SELECT `+roomColumns+` FROM rooms WHERE property_id=$1 ORDER BY id`, propertyID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	defer rows.Close()

	rooms := make([]domain.Room, 0)
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.PropertyID, &room.Name, &room.Capacity, &room.BasePrice, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, mapStorageErr(err)
		}
		rooms = append(rooms, room)
	}
	return rooms, mapStorageErr(rows.Err())
}

// IsRoomAvailable checks for date-range overlap against bookings that still
// hold the room. Cancelled and completed bookings do not block.
func (r *PGPropertyRepository) IsRoomAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	var overlapping int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings
		WHERE room_id = $1 AND status IN ($2, $3, $4)
		AND check_in < $5 AND check_out > $6`,
		roomID,
		domain.BookingStatusWaitingPayment, domain.BookingStatusWaitingConfirmation, domain.BookingStatusProcessing,
		checkOut, checkIn).Scan(&overlapping)
	if err != nil {
		return false, mapStorageErr(err)
	}
	return overlapping == 0, nil
}

var _ PropertyRepository = (*PGPropertyRepository)(nil)
