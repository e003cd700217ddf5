package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/bookwormhq/bookworm-backend/pkg/db/models"
	"github.com/bookwormhq/bookworm-backend/pkg/enums"
	"github.com/bookwormhq/bookworm-backend/pkg/pagination"
)

// ReviewDTO is the API projection of a single review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	BookID    uuid.UUID `json:"book_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Body      *string   `json:"body,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FromModel converts a stored review into its API projection.
func FromModel(r *models.Review) ReviewDTO {
	return ReviewDTO{
		ID:        r.ID,
		BookID:    r.BookID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Title:     r.Title,
		Body:      r.Body,
		CreatedAt: r.CreatedAt,
	}
}

// ListReviewsInput selects a page of reviews for a book. Stars narrows to a
// single rating bucket; nil means all ratings.
type ListReviewsInput struct {
	Pagination pagination.Params
	Sort       enums.ReviewSort
	Stars      *int
}

// RatingBreakdown aggregates every review for a book regardless of any star
// filter applied to the listing itself.
type RatingBreakdown struct {
	AvgRating    float64 `json:"avg_rating"`
	ReviewsCount int     `json:"reviews_count"`
	FiveStars    int     `json:"five_stars"`
	FourStars    int     `json:"four_stars"`
	ThreeStars   int     `json:"three_stars"`
	TwoStars     int     `json:"two_stars"`
	OneStars     int     `json:"one_stars"`
}

// ReviewListDTO is the full listing response: the requested page plus the
// aggregate breakdown for the book.
type ReviewListDTO struct {
	Reviews    []ReviewDTO     `json:"reviews"`
	Pagination pagination.Page `json:"pagination"`
	RatingBreakdown
}

// CreateReviewInput carries a new review submission.
type CreateReviewInput struct {
	Rating int
	Title  string
	Body   *string
}

// ReviewCreatedEvent is the payload emitted on the outbox when a review lands.
type ReviewCreatedEvent struct {
	ReviewID uuid.UUID `json:"review_id"`
	BookID   uuid.UUID `json:"book_id"`
	UserID   uuid.UUID `json:"user_id"`
	Rating   int       `json:"rating"`
}
