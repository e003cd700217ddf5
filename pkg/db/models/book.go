package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book represents a sellable catalog title. Price is the regular list price;
// effective pricing comes from the active discount window at read time.
type Book struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string          `gorm:"column:title;type:text;not null"`
	Description *string         `gorm:"column:description;type:text"`
	ISBN        *string         `gorm:"column:isbn;type:text"`
	CoverURL    *string         `gorm:"column:cover_url;type:text"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(5,2);not null"`
	AuthorID    uuid.UUID       `gorm:"column:author_id;type:uuid;not null"`
	CategoryID  uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	Author      *Author         `gorm:"foreignKey:AuthorID"`
	Category    *Category       `gorm:"foreignKey:CategoryID"`
	Discounts   []Discount      `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
