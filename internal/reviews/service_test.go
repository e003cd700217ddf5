package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookwormhq/bookworm-backend/pkg/db/models"
	"github.com/bookwormhq/bookworm-backend/pkg/enums"
	pkgerrors "github.com/bookwormhq/bookworm-backend/pkg/errors"
	"github.com/bookwormhq/bookworm-backend/pkg/outbox"
	"github.com/bookwormhq/bookworm-backend/pkg/pagination"
)

type stubReviewsRepo struct {
	created *models.Review

	listForBook func(ctx context.Context, bookID uuid.UUID, input ListReviewsInput) ([]models.Review, int, error)
	breakdown   func(ctx context.Context, bookID uuid.UUID) (RatingBreakdown, error)
	create      func(ctx context.Context, review *models.Review) (*models.Review, error)
	bookExists  func(ctx context.Context, bookID uuid.UUID) (bool, error)
}

func (s *stubReviewsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubReviewsRepo) ListForBook(ctx context.Context, bookID uuid.UUID, input ListReviewsInput) ([]models.Review, int, error) {
	if s.listForBook != nil {
		return s.listForBook(ctx, bookID, input)
	}
	return nil, 0, nil
}

func (s *stubReviewsRepo) Breakdown(ctx context.Context, bookID uuid.UUID) (RatingBreakdown, error) {
	if s.breakdown != nil {
		return s.breakdown(ctx, bookID)
	}
	return RatingBreakdown{}, nil
}

func (s *stubReviewsRepo) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if s.create != nil {
		return s.create(ctx, review)
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = time.Now()
	s.created = review
	return review, nil
}

func (s *stubReviewsRepo) BookExists(ctx context.Context, bookID uuid.UUID) (bool, error) {
	if s.bookExists != nil {
		return s.bookExists(ctx, bookID)
	}
	return true, nil
}

type stubPurchases struct {
	purchased bool
	err       error
}

func (s *stubPurchases) HasPurchased(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	return s.purchased, s.err
}

type stubTxRunner struct {
	calls int
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	return fn(nil)
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type reviewFixture struct {
	svc       Service
	repo      *stubReviewsRepo
	purchases *stubPurchases
	outbox    *stubOutbox
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	repo := &stubReviewsRepo{}
	purchases := &stubPurchases{purchased: true}
	ob := &stubOutbox{}
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		Purchases: purchases,
		Tx:        &stubTxRunner{},
		Outbox:    ob,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &reviewFixture{svc: svc, repo: repo, purchases: purchases, outbox: ob}
}

func errCode(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected a typed error, got %v", err)
	}
	return appErr.Code()
}

func TestListForBookReturnsPageAndBreakdown(t *testing.T) {
	f := newReviewFixture(t)
	bookID := uuid.New()
	f.repo.listForBook = func(ctx context.Context, id uuid.UUID, input ListReviewsInput) ([]models.Review, int, error) {
		if input.Sort != enums.ReviewSortNewest {
			t.Fatalf("expected newest default sort, got %s", input.Sort)
		}
		return []models.Review{
			{ID: uuid.New(), BookID: id, Rating: 5, Title: "great"},
			{ID: uuid.New(), BookID: id, Rating: 4, Title: "good"},
		}, 7, nil
	}
	f.repo.breakdown = func(ctx context.Context, id uuid.UUID) (RatingBreakdown, error) {
		return RatingBreakdown{AvgRating: 4.5, ReviewsCount: 7, FiveStars: 4, FourStars: 3}, nil
	}

	list, err := f.svc.ListForBook(context.Background(), bookID, ListReviewsInput{
		Pagination: pagination.Params{Page: 1, ItemsPerPage: 5},
	})
	if err != nil {
		t.Fatalf("ListForBook: %v", err)
	}
	if len(list.Reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(list.Reviews))
	}
	if list.Pagination.TotalPages != 2 || list.Pagination.TotalItems != 7 {
		t.Fatalf("unexpected pagination: %+v", list.Pagination)
	}
	if list.ReviewsCount != 7 || list.FiveStars != 4 || list.OneStars != 0 {
		t.Fatalf("unexpected breakdown: %+v", list.RatingBreakdown)
	}
}

func TestListForBookValidatesInput(t *testing.T) {
	f := newReviewFixture(t)
	bookID := uuid.New()

	badStars := 6
	cases := []struct {
		name  string
		input ListReviewsInput
	}{
		{"bad items per page", ListReviewsInput{Pagination: pagination.Params{Page: 1, ItemsPerPage: 7}}},
		{"bad sort", ListReviewsInput{Sort: enums.ReviewSort("rating")}},
		{"stars out of range", ListReviewsInput{Stars: &badStars}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.ListForBook(context.Background(), bookID, tc.input)
			if errCode(t, err) != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestListForBookUnknownBook(t *testing.T) {
	f := newReviewFixture(t)
	f.repo.bookExists = func(ctx context.Context, bookID uuid.UUID) (bool, error) {
		return false, nil
	}

	_, err := f.svc.ListForBook(context.Background(), uuid.New(), ListReviewsInput{})
	if errCode(t, err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateStoresReviewAndEmitsEvent(t *testing.T) {
	f := newReviewFixture(t)
	userID := uuid.New()
	bookID := uuid.New()

	dto, err := f.svc.Create(context.Background(), userID, bookID, CreateReviewInput{
		Rating: 5,
		Title:  "a page turner",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Rating != 5 || dto.BookID != bookID || dto.UserID != userID {
		t.Fatalf("unexpected review dto: %+v", dto)
	}
	if f.repo.created == nil {
		t.Fatal("review was not persisted")
	}
	if len(f.outbox.events) != 1 {
		t.Fatalf("expected one outbox event, got %d", len(f.outbox.events))
	}
	event := f.outbox.events[0]
	if event.EventType != enums.EventReviewCreated || event.AggregateType != enums.AggregateReview {
		t.Fatalf("unexpected event envelope: %+v", event)
	}
}

func TestCreateRequiresPurchase(t *testing.T) {
	f := newReviewFixture(t)
	f.purchases.purchased = false

	_, err := f.svc.Create(context.Background(), uuid.New(), uuid.New(), CreateReviewInput{
		Rating: 4,
		Title:  "solid",
	})
	if errCode(t, err) != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if f.repo.created != nil {
		t.Fatalf("review was persisted despite missing purchase: %+v", f.repo.created)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	f := newReviewFixture(t)
	userID := uuid.New()
	bookID := uuid.New()

	cases := []struct {
		name  string
		input CreateReviewInput
	}{
		{"rating too low", CreateReviewInput{Rating: 0, Title: "x"}},
		{"rating too high", CreateReviewInput{Rating: 6, Title: "x"}},
		{"missing title", CreateReviewInput{Rating: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), userID, bookID, tc.input)
			if errCode(t, err) != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}

	_, err := f.svc.Create(context.Background(), uuid.Nil, bookID, CreateReviewInput{Rating: 3, Title: "x"})
	if errCode(t, err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for nil user, got %v", err)
	}
}

func TestCreateDuplicateReviewConflicts(t *testing.T) {
	f := newReviewFixture(t)
	f.repo.create = func(ctx context.Context, review *models.Review) (*models.Review, error) {
		return nil, &duplicateErr{}
	}

	_, err := f.svc.Create(context.Background(), uuid.New(), uuid.New(), CreateReviewInput{
		Rating: 4,
		Title:  "again",
	})
	if errCode(t, err) != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

type duplicateErr struct{}

func (e *duplicateErr) Error() string {
	return "UNIQUE constraint failed: reviews.book_id, reviews.user_id"
}
