package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bookwormhq/bookworm-backend/pkg/db"
	"github.com/bookwormhq/bookworm-backend/pkg/db/models"
	"github.com/bookwormhq/bookworm-backend/pkg/enums"
	"github.com/bookwormhq/bookworm-backend/pkg/pagination"
)

func setupReviewsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS books (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			price NUMERIC NOT NULL,
			author_id TEXT,
			category_id TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id TEXT PRIMARY KEY,
			book_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			rating INTEGER NOT NULL,
			title TEXT NOT NULL,
			body TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (book_id, user_id)
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func seedBook(t *testing.T, gdb *gorm.DB) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, gdb.Exec(
		`INSERT INTO books (id, title, price) VALUES (?, ?, ?)`,
		id, "The Test Pyramid", "20.00",
	).Error)
	return id
}

func seedReview(t *testing.T, repo Repository, bookID uuid.UUID, rating int) *models.Review {
	t.Helper()
	review, err := repo.Create(context.Background(), &models.Review{
		BookID: bookID,
		UserID: uuid.New(),
		Rating: rating,
		Title:  "review",
	})
	require.NoError(t, err)
	return review
}

func TestRepositoryBreakdown(t *testing.T) {
	gdb := setupReviewsTestDB(t)
	repo := NewRepository(gdb)
	bookID := seedBook(t, gdb)

	for _, rating := range []int{5, 5, 4, 2} {
		seedReview(t, repo, bookID, rating)
	}

	breakdown, err := repo.Breakdown(context.Background(), bookID)
	require.NoError(t, err)
	assert.Equal(t, 4, breakdown.ReviewsCount)
	assert.Equal(t, 2, breakdown.FiveStars)
	assert.Equal(t, 1, breakdown.FourStars)
	assert.Equal(t, 0, breakdown.ThreeStars)
	assert.Equal(t, 1, breakdown.TwoStars)
	assert.InDelta(t, 4.0, breakdown.AvgRating, 0.0001)
}

func TestRepositoryBreakdownEmpty(t *testing.T) {
	gdb := setupReviewsTestDB(t)
	repo := NewRepository(gdb)
	bookID := seedBook(t, gdb)

	breakdown, err := repo.Breakdown(context.Background(), bookID)
	require.NoError(t, err)
	assert.Zero(t, breakdown.ReviewsCount)
	assert.Zero(t, breakdown.AvgRating)
}

func TestRepositoryListForBookFiltersAndSorts(t *testing.T) {
	gdb := setupReviewsTestDB(t)
	repo := NewRepository(gdb)
	bookID := seedBook(t, gdb)

	seedReview(t, repo, bookID, 5)
	seedReview(t, repo, bookID, 5)
	seedReview(t, repo, bookID, 3)

	stars := 5
	rows, total, err := repo.ListForBook(context.Background(), bookID, ListReviewsInput{
		Pagination: pagination.Params{Page: 1, ItemsPerPage: 5},
		Sort:       enums.ReviewSortNewest,
		Stars:      &stars,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, 5, row.Rating)
	}

	rows, total, err = repo.ListForBook(context.Background(), bookID, ListReviewsInput{
		Pagination: pagination.Params{Page: 1, ItemsPerPage: 5},
		Sort:       enums.ReviewSortOldest,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, rows, 3)
}

func TestRepositoryCreateEnforcesOneReviewPerUser(t *testing.T) {
	gdb := setupReviewsTestDB(t)
	repo := NewRepository(gdb)
	bookID := seedBook(t, gdb)
	userID := uuid.New()

	_, err := repo.Create(context.Background(), &models.Review{
		BookID: bookID,
		UserID: userID,
		Rating: 5,
		Title:  "first",
	})
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), &models.Review{
		BookID: bookID,
		UserID: userID,
		Rating: 1,
		Title:  "second",
	})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestRepositoryBookExists(t *testing.T) {
	gdb := setupReviewsTestDB(t)
	repo := NewRepository(gdb)
	bookID := seedBook(t, gdb)

	exists, err := repo.BookExists(context.Background(), bookID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.BookExists(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}
