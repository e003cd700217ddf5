package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookwormhq/bookworm-backend/pkg/db/models"
	"github.com/bookwormhq/bookworm-backend/pkg/enums"
)

// Repository defines persistence operations for the reviews table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListForBook(ctx context.Context, bookID uuid.UUID, input ListReviewsInput) ([]models.Review, int, error)
	Breakdown(ctx context.Context, bookID uuid.UUID) (RatingBreakdown, error)
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	BookExists(ctx context.Context, bookID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reviews repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListForBook(ctx context.Context, bookID uuid.UUID, input ListReviewsInput) ([]models.Review, int, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("book_id = ?", bookID)
	if input.Stars != nil {
		base = base.Where("rating = ?", *input.Stars)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC, id DESC"
	if input.Sort == enums.ReviewSortOldest {
		order = "created_at ASC, id ASC"
	}

	var rows []models.Review
	err := base.
		Order(order).
		Offset(input.Pagination.Offset()).
		Limit(input.Pagination.ItemsPerPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, int(total), nil
}

type ratingBucket struct {
	Rating int
	Count  int
}

// Breakdown aggregates all reviews for the book. The average is computed over
// the raw counts so a star-filtered listing still reports book-wide numbers.
func (r *repository) Breakdown(ctx context.Context, bookID uuid.UUID) (RatingBreakdown, error) {
	var buckets []ratingBucket
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("book_id = ?", bookID).
		Group("rating").
		Scan(&buckets).Error
	if err != nil {
		return RatingBreakdown{}, err
	}

	var breakdown RatingBreakdown
	sum := 0
	for _, bucket := range buckets {
		breakdown.ReviewsCount += bucket.Count
		sum += bucket.Rating * bucket.Count
		switch bucket.Rating {
		case 5:
			breakdown.FiveStars = bucket.Count
		case 4:
			breakdown.FourStars = bucket.Count
		case 3:
			breakdown.ThreeStars = bucket.Count
		case 2:
			breakdown.TwoStars = bucket.Count
		case 1:
			breakdown.OneStars = bucket.Count
		}
	}
	if breakdown.ReviewsCount > 0 {
		breakdown.AvgRating = float64(sum) / float64(breakdown.ReviewsCount)
	}
	return breakdown, nil
}

func (r *repository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

func (r *repository) BookExists(ctx context.Context, bookID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", bookID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
