package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bookwormhq/bookworm-backend/pkg/db/models"
	"github.com/bookwormhq/bookworm-backend/pkg/enums"
	"github.com/bookwormhq/bookworm-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS authors (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			bio TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS books (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			isbn TEXT,
			cover_url TEXT,
			price NUMERIC NOT NULL,
			author_id TEXT NOT NULL,
			category_id TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS discounts (
			id TEXT PRIMARY KEY,
			book_id TEXT NOT NULL,
			discount_price NUMERIC NOT NULL,
			start_date DATETIME NOT NULL,
			end_date DATETIME,
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
			updated_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

type catalogFixture struct {
	authorID   uuid.UUID
	categoryID uuid.UUID
}

func seedCatalogBase(t *testing.T, gdb *gorm.DB) catalogFixture {
	t.Helper()
	author := models.Author{ID: uuid.New(), Name: "Ursula Vernon"}
	category := models.Category{ID: uuid.New(), Name: "Fantasy"}
	require.NoError(t, gdb.Create(&author).Error)
	require.NoError(t, gdb.Create(&category).Error)
	return catalogFixture{authorID: author.ID, categoryID: category.ID}
}

func seedCatalogBook(t *testing.T, gdb *gorm.DB, fix catalogFixture, title, price string) uuid.UUID {
	t.Helper()
	book := models.Book{
		ID:         uuid.New(),
		Title:      title,
		Price:      decimal.RequireFromString(price),
		AuthorID:   fix.authorID,
		CategoryID: fix.categoryID,
	}
	require.NoError(t, gdb.Create(&book).Error)
	return book.ID
}

func seedCatalogDiscount(t *testing.T, gdb *gorm.DB, bookID uuid.UUID, price string, start time.Time, end *time.Time) {
	t.Helper()
	require.NoError(t, gdb.Create(&models.Discount{
		ID:            uuid.New(),
		BookID:        bookID,
		DiscountPrice: decimal.RequireFromString(price),
		StartDate:     start,
		EndDate:       end,
	}).Error)
}

func seedCatalogReview(t *testing.T, gdb *gorm.DB, bookID uuid.UUID, rating int) {
	t.Helper()
	require.NoError(t, gdb.Create(&models.Review{
		ID:     uuid.New(),
		BookID: bookID,
		UserID: uuid.New(),
		Rating: rating,
		Title:  "review",
	}).Error)
}

func TestFindBooksWithPricingResolvesActiveDiscounts(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	fix := seedCatalogBase(t, gdb)
	repo := NewRepository(gdb)
	now := time.Now().UTC()

	discounted := seedCatalogBook(t, gdb, fix, "Discounted", "20.00")
	regular := seedCatalogBook(t, gdb, fix, "Regular", "12.50")
	seedCatalogDiscount(t, gdb, discounted, "15.00", now.Add(-24*time.Hour), nil)
	// expired window must not apply
	expiredEnd := now.Add(-time.Hour)
	seedCatalogDiscount(t, gdb, discounted, "5.00", now.Add(-48*time.Hour), &expiredEnd)

	missing := uuid.New()
	pricing, err := repo.FindBooksWithPricing(context.Background(), []uuid.UUID{discounted, regular, missing}, now)
	require.NoError(t, err)

	require.Len(t, pricing, 2)
	assert.NotContains(t, pricing, missing)

	got := pricing[discounted]
	require.NotNil(t, got.DiscountPrice)
	assert.True(t, got.DiscountPrice.Equal(decimal.RequireFromString("15.00")))
	assert.True(t, got.FinalPrice.Equal(decimal.RequireFromString("15.00")))
	assert.True(t, got.RegularPrice.Equal(decimal.RequireFromString("20.00")))

	plain := pricing[regular]
	assert.Nil(t, plain.DiscountPrice)
	assert.True(t, plain.FinalPrice.Equal(decimal.RequireFromString("12.50")))
}

func TestListBooksSortsAndFilters(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	fix := seedCatalogBase(t, gdb)
	repo := NewRepository(gdb)
	now := time.Now().UTC()

	cheap := seedCatalogBook(t, gdb, fix, "Cheap", "8.00")
	mid := seedCatalogBook(t, gdb, fix, "Mid", "15.00")
	pricey := seedCatalogBook(t, gdb, fix, "Pricey", "30.00")
	seedCatalogDiscount(t, gdb, pricey, "18.00", now.Add(-time.Hour), nil)
	seedCatalogReview(t, gdb, mid, 5)
	seedCatalogReview(t, gdb, mid, 4)
	seedCatalogReview(t, gdb, cheap, 3)

	params := pagination.Params{Page: 1, ItemsPerPage: pagination.DefaultItemsPerPage}

	list, err := repo.ListBooks(context.Background(), ListBooksInput{Pagination: params, Sort: enums.BookSortPriceAsc}, now)
	require.NoError(t, err)
	require.Len(t, list.Books, 3)
	assert.Equal(t, "Cheap", list.Books[0].Title)
	assert.Equal(t, "Mid", list.Books[1].Title)
	assert.Equal(t, "Pricey", list.Books[2].Title)
	assert.Equal(t, 3, list.Page.TotalItems)

	onSale, err := repo.ListBooks(context.Background(), ListBooksInput{Pagination: params, Sort: enums.BookSortOnSale}, now)
	require.NoError(t, err)
	require.Len(t, onSale.Books, 1)
	assert.Equal(t, pricey, onSale.Books[0].ID)
	require.NotNil(t, onSale.Books[0].DiscountAmount)
	assert.True(t, onSale.Books[0].DiscountAmount.Equal(decimal.RequireFromString("12.00")))

	popular, err := repo.ListBooks(context.Background(), ListBooksInput{Pagination: params, Sort: enums.BookSortPopularity}, now)
	require.NoError(t, err)
	assert.Equal(t, mid, popular.Books[0].ID)
	assert.Equal(t, 2, popular.Books[0].ReviewsCount)

	rated, err := repo.ListBooks(context.Background(), ListBooksInput{Pagination: params, MinRating: 4}, now)
	require.NoError(t, err)
	require.Len(t, rated.Books, 1)
	assert.Equal(t, mid, rated.Books[0].ID)
	assert.InDelta(t, 4.5, rated.Books[0].AvgRating, 0.001)

	byAuthor, err := repo.ListBooks(context.Background(), ListBooksInput{Pagination: params, AuthorName: "Ursula Vernon"}, now)
	require.NoError(t, err)
	assert.Len(t, byAuthor.Books, 3)

	byAuthorID, err := repo.ListBooks(context.Background(), ListBooksInput{Pagination: params, AuthorID: fix.authorID}, now)
	require.NoError(t, err)
	assert.Len(t, byAuthorID.Books, 3)

	byCategoryID, err := repo.ListBooks(context.Background(), ListBooksInput{Pagination: params, CategoryID: uuid.New()}, now)
	require.NoError(t, err)
	assert.Empty(t, byCategoryID.Books)

	byCategory, err := repo.ListBooks(context.Background(), ListBooksInput{Pagination: params, CategoryName: "Nonexistent"}, now)
	require.NoError(t, err)
	assert.Empty(t, byCategory.Books)
	assert.Equal(t, 0, byCategory.Page.TotalItems)

}

func TestListBooksPaginates(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	fix := seedCatalogBase(t, gdb)
	repo := NewRepository(gdb)
	now := time.Now().UTC()

	for i := 0; i < 7; i++ {
		seedCatalogBook(t, gdb, fix, "Book", "10.00")
	}

	list, err := repo.ListBooks(context.Background(), ListBooksInput{
		Pagination: pagination.Params{Page: 2, ItemsPerPage: 5},
	}, now)
	require.NoError(t, err)
	assert.Len(t, list.Books, 2)
	assert.Equal(t, 2, list.Page.CurrentPage)
	assert.Equal(t, 2, list.Page.TotalPages)
	assert.Equal(t, 7, list.Page.TotalItems)
	assert.Equal(t, 6, list.Page.StartItem)
	assert.Equal(t, 7, list.Page.EndItem)

}

func TestFindBookDetail(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	fix := seedCatalogBase(t, gdb)
	repo := NewRepository(gdb)
	now := time.Now().UTC()

	bookID := seedCatalogBook(t, gdb, fix, "Detailed", "22.00")
	seedCatalogDiscount(t, gdb, bookID, "19.99", now.Add(-time.Minute), nil)
	seedCatalogReview(t, gdb, bookID, 4)

	detail, err := repo.FindBookDetail(context.Background(), bookID, now)
	require.NoError(t, err)
	assert.Equal(t, "Detailed", detail.Title)
	assert.Equal(t, "Ursula Vernon", detail.AuthorName)
	assert.Equal(t, "Fantasy", detail.CategoryName)
	require.NotNil(t, detail.DiscountPrice)
	assert.True(t, detail.FinalPrice.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, 1, detail.ReviewsCount)

	_, err = repo.FindBookDetail(context.Background(), uuid.New(), now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

}

func TestListAuthorsAndCategoriesAlphabetical(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	repo := NewRepository(gdb)

	require.NoError(t, gdb.Create(&models.Author{ID: uuid.New(), Name: "Zadie Smith"}).Error)
	require.NoError(t, gdb.Create(&models.Author{ID: uuid.New(), Name: "Ann Leckie"}).Error)
	require.NoError(t, gdb.Create(&models.Category{ID: uuid.New(), Name: "Sci-Fi"}).Error)
	require.NoError(t, gdb.Create(&models.Category{ID: uuid.New(), Name: "History"}).Error)

	authors, err := repo.ListAuthors(context.Background())
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Ann Leckie", authors[0].Name)

	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "History", categories[0].Name)
}
