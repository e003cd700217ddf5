package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookwormhq/bookworm-backend/pkg/enums"
	"github.com/bookwormhq/bookworm-backend/pkg/pagination"
)

// ResolvedPrice is the effective pricing for a book at a point in time.
// DiscountPrice is nil when no discount window is active; FinalPrice then
// equals RegularPrice.
type ResolvedPrice struct {
	BookID        uuid.UUID
	RegularPrice  decimal.Decimal
	DiscountPrice *decimal.Decimal
	FinalPrice    decimal.Decimal
}

// BookSummary is the browsing projection returned by book listings.
type BookSummary struct {
	ID             uuid.UUID        `json:"id"`
	Title          string           `json:"title"`
	CoverURL       *string          `json:"cover_url,omitempty"`
	Price          decimal.Decimal  `json:"price"`
	DiscountPrice  *decimal.Decimal `json:"discount_price,omitempty"`
	FinalPrice     decimal.Decimal  `json:"final_price"`
	DiscountAmount *decimal.Decimal `json:"discount_amount,omitempty"`
	AuthorName     string           `json:"author_name"`
	CategoryName   string           `json:"category_name"`
	ReviewsCount   int              `json:"reviews_count"`
	AvgRating      float64          `json:"avg_rating"`
}

// BookDetail extends the summary with descriptive fields for the book page.
type BookDetail struct {
	BookSummary
	Description *string   `json:"description,omitempty"`
	ISBN        *string   `json:"isbn,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListBooksInput carries the browsing filters and sort mode. Name and id
// filters combine; a zero id means no id filter.
type ListBooksInput struct {
	Pagination   pagination.Params
	Sort         enums.BookSort
	CategoryName string
	AuthorName   string
	CategoryID   uuid.UUID
	AuthorID     uuid.UUID
	MinRating    float64
}

// BookListDTO is a paged book listing.
type BookListDTO struct {
	Books []BookSummary   `json:"books"`
	Page  pagination.Page `json:"pagination"`
}

// AuthorDTO is the public author projection.
type AuthorDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Bio  *string   `json:"bio,omitempty"`
}

// CategoryDTO is the public category projection.
type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
