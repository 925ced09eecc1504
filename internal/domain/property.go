package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Property struct {
	ID        int64
	TenantID  int64
	Name      string
	City      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Room struct {
	ID         int64
	PropertyID int64
	Name       string
	Capacity   int
	// BasePrice is the per-night rate used to compute a booking total.
	BasePrice decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
