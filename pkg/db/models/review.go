package models

import (
	"time"

	"github.com/google/uuid"
)

// Review represents a reader rating for a book. One review per user per book.
type Review struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BookID    uuid.UUID `gorm:"column:book_id;type:uuid;not null;uniqueIndex:idx_reviews_book_user"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_reviews_book_user"`
	Rating    int       `gorm:"column:rating;not null"`
	Title     string    `gorm:"column:title;type:text;not null"`
	Body      *string   `gorm:"column:body;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
