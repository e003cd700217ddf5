package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Discount represents a time-windowed promotional price for a book.
// A nil EndDate means the window is open-ended.
type Discount struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BookID        uuid.UUID       `gorm:"column:book_id;type:uuid;not null;index"`
	DiscountPrice decimal.Decimal `gorm:"column:discount_price;type:numeric(5,2);not null"`
	StartDate     time.Time       `gorm:"column:start_date;not null"`
	EndDate       *time.Time      `gorm:"column:end_date"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// ActiveAt reports whether the discount window contains the given instant.
func (d Discount) ActiveAt(asOf time.Time) bool {
	if d.StartDate.After(asOf) {
		return false
	}
	if d.EndDate != nil && d.EndDate.Before(asOf) {
		return false
	}
	return true
}
