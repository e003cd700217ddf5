package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookwormhq/bookworm-backend/pkg/db"
	"github.com/bookwormhq/bookworm-backend/pkg/db/models"
	"github.com/bookwormhq/bookworm-backend/pkg/enums"
	pkgerrors "github.com/bookwormhq/bookworm-backend/pkg/errors"
	"github.com/bookwormhq/bookworm-backend/pkg/outbox"
	"github.com/bookwormhq/bookworm-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// purchaseChecker reports whether a user bought a given book. Satisfied by the
// orders repository.
type purchaseChecker interface {
	HasPurchased(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
}

// Service exposes review listing and creation.
type Service interface {
	ListForBook(ctx context.Context, bookID uuid.UUID, input ListReviewsInput) (*ReviewListDTO, error)
	Create(ctx context.Context, userID, bookID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error)
}

// ServiceParams groups dependencies for the reviews service.
type ServiceParams struct {
	Repo      Repository
	Purchases purchaseChecker
	Tx        txRunner
	Outbox    outboxPublisher
}

type service struct {
	repo      Repository
	purchases purchaseChecker
	tx        txRunner
	outbox    outboxPublisher
}

// NewService builds a reviews service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reviews repo is required")
	}
	if params.Purchases == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase checker is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbox publisher is required")
	}
	return &service{
		repo:      params.Repo,
		purchases: params.Purchases,
		tx:        params.Tx,
		outbox:    params.Outbox,
	}, nil
}

// ListForBook returns one page of reviews plus the book-wide rating breakdown.
// The breakdown covers every review for the book even when a star filter
// narrows the page.
func (s *service) ListForBook(ctx context.Context, bookID uuid.UUID, input ListReviewsInput) (*ReviewListDTO, error) {
	if bookID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "book id is required")
	}
	params, err := pagination.Normalize(input.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pagination")
	}
	input.Pagination = params

	if input.Sort == "" {
		input.Sort = enums.ReviewSortNewest
	}
	if !input.Sort.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort mode")
	}
	if input.Stars != nil && (*input.Stars < 1 || *input.Stars > 5) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stars must be between 1 and 5")
	}

	exists, err := s.repo.BookExists(ctx, bookID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check book")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
	}

	rows, total, err := s.repo.ListForBook(ctx, bookID, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	breakdown, err := s.repo.Breakdown(ctx, bookID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate reviews")
	}

	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return &ReviewListDTO{
		Reviews:         out,
		Pagination:      pagination.Build(params, total),
		RatingBreakdown: breakdown,
	}, nil
}

// Create stores a review for a book the user has purchased. One review per
// user per book; a second attempt surfaces as a conflict.
func (s *service) Create(ctx context.Context, userID, bookID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if bookID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "book id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	exists, err := s.repo.BookExists(ctx, bookID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check book")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
	}

	purchased, err := s.purchases.HasPurchased(ctx, userID, bookID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check purchase")
	}
	if !purchased {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reviews require a purchase of the book")
	}

	review := &models.Review{
		BookID: bookID,
		UserID: userID,
		Rating: input.Rating,
		Title:  input.Title,
		Body:   input.Body,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, review); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "you already reviewed this book")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventReviewCreated,
			AggregateType: enums.AggregateReview,
			AggregateID:   review.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: userID},
			Data: ReviewCreatedEvent{
				ReviewID: review.ID,
				BookID:   bookID,
				UserID:   userID,
				Rating:   input.Rating,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit review event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := FromModel(review)
	return &dto, nil
}
