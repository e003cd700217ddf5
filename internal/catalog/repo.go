package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bookwormhq/bookworm-backend/pkg/db/models"
	"github.com/bookwormhq/bookworm-backend/pkg/enums"
	"github.com/bookwormhq/bookworm-backend/pkg/pagination"
)

// Repository defines persistence operations for the catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBooksWithPricing(ctx context.Context, ids []uuid.UUID, asOf time.Time) (map[uuid.UUID]ResolvedPrice, error)
	ListBooks(ctx context.Context, input ListBooksInput, asOf time.Time) (*BookListDTO, error)
	FindBookDetail(ctx context.Context, id uuid.UUID, asOf time.Time) (*BookDetail, error)
	ListAuthors(ctx context.Context) ([]AuthorDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindBooksWithPricing loads the requested books plus their discount rows and
// resolves the effective price per book as of the given instant. Books that do
// not exist are simply absent from the returned map. When called with a
// transaction handle the read shares that transaction's snapshot.
func (r *repository) FindBooksWithPricing(ctx context.Context, ids []uuid.UUID, asOf time.Time) (map[uuid.UUID]ResolvedPrice, error) {
	resolved := make(map[uuid.UUID]ResolvedPrice, len(ids))
	if len(ids) == 0 {
		return resolved, nil
	}

	var books []models.Book
	err := r.db.WithContext(ctx).
		Preload("Discounts", "start_date <= ? AND (end_date IS NULL OR end_date >= ?)", asOf, asOf).
		Where("id IN ?", ids).
		Find(&books).Error
	if err != nil {
		return nil, err
	}

	for _, book := range books {
		resolved[book.ID] = resolve(book, asOf)
	}
	return resolved, nil
}

const activeDiscountJoin = `LEFT JOIN (
  SELECT book_id, MIN(discount_price) AS discount_price
  FROM discounts
  WHERE start_date <= ? AND (end_date IS NULL OR end_date >= ?)
  GROUP BY book_id
) d ON d.book_id = b.id`

const reviewStatsJoin = `LEFT JOIN (
  SELECT book_id, COUNT(*) AS reviews_count, AVG(rating) AS avg_rating
  FROM reviews
  GROUP BY book_id
) rv ON rv.book_id = b.id`

type bookRecord struct {
	ID            uuid.UUID           `gorm:"column:id"`
	Title         string              `gorm:"column:title"`
	Description   *string             `gorm:"column:description"`
	ISBN          *string             `gorm:"column:isbn"`
	CoverURL      *string             `gorm:"column:cover_url"`
	Price         decimal.Decimal     `gorm:"column:price"`
	DiscountPrice decimal.NullDecimal `gorm:"column:discount_price"`
	AuthorName    string              `gorm:"column:author_name"`
	CategoryName  string              `gorm:"column:category_name"`
	ReviewsCount  int                 `gorm:"column:reviews_count"`
	AvgRating     *float64            `gorm:"column:avg_rating"`
	CreatedAt     time.Time           `gorm:"column:created_at"`
}

func (rec bookRecord) toSummary() BookSummary {
	summary := BookSummary{
		ID:           rec.ID,
		Title:        rec.Title,
		CoverURL:     rec.CoverURL,
		Price:        rec.Price,
		FinalPrice:   rec.Price,
		AuthorName:   rec.AuthorName,
		CategoryName: rec.CategoryName,
		ReviewsCount: rec.ReviewsCount,
	}
	if rec.AvgRating != nil {
		summary.AvgRating = *rec.AvgRating
	}
	if rec.DiscountPrice.Valid {
		price := rec.DiscountPrice.Decimal
		amount := rec.Price.Sub(price)
		summary.DiscountPrice = &price
		summary.FinalPrice = price
		summary.DiscountAmount = &amount
	}
	return summary
}

func (r *repository) booksQuery(ctx context.Context, input ListBooksInput, asOf time.Time) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("books b").
		Select(`b.id, b.title, b.description, b.isbn, b.cover_url, b.price, b.created_at,
			d.discount_price,
			a.name AS author_name,
			c.name AS category_name,
			COALESCE(rv.reviews_count, 0) AS reviews_count,
			rv.avg_rating`).
		Joins("JOIN authors a ON a.id = b.author_id").
		Joins("JOIN categories c ON c.id = b.category_id").
		Joins(activeDiscountJoin, asOf, asOf).
		Joins(reviewStatsJoin)

	if input.CategoryName != "" {
		query = query.Where("c.name = ?", input.CategoryName)
	}
	if input.AuthorName != "" {
		query = query.Where("a.name = ?", input.AuthorName)
	}
	if input.CategoryID != uuid.Nil {
		query = query.Where("c.id = ?", input.CategoryID)
	}
	if input.AuthorID != uuid.Nil {
		query = query.Where("a.id = ?", input.AuthorID)
	}
	if input.MinRating > 0 {
		query = query.Where("rv.avg_rating >= ?", input.MinRating)
	}
	if input.Sort == enums.BookSortOnSale {
		query = query.Where("d.discount_price IS NOT NULL")
	}
	return query
}

func applySort(query *gorm.DB, sort enums.BookSort) *gorm.DB {
	const finalPrice = "COALESCE(d.discount_price, b.price)"
	switch sort {
	case enums.BookSortOnSale:
		return query.Order("(b.price - d.discount_price) DESC").Order(finalPrice + " ASC").Order("b.id ASC")
	case enums.BookSortPopularity:
		return query.Order("COALESCE(rv.reviews_count, 0) DESC").Order(finalPrice + " ASC").Order("b.id ASC")
	case enums.BookSortPriceAsc:
		return query.Order(finalPrice + " ASC").Order("b.id ASC")
	case enums.BookSortPriceDesc:
		return query.Order(finalPrice + " DESC").Order("b.id ASC")
	case enums.BookSortRecommend:
		return query.Order("COALESCE(rv.avg_rating, 0) DESC").Order(finalPrice + " ASC").Order("b.id ASC")
	default:
		return query.Order("b.created_at DESC").Order("b.id ASC")
	}
}

func (r *repository) ListBooks(ctx context.Context, input ListBooksInput, asOf time.Time) (*BookListDTO, error) {
	var total int64
	if err := r.booksQuery(ctx, input, asOf).Count(&total).Error; err != nil {
		return nil, err
	}

	query := applySort(r.booksQuery(ctx, input, asOf), input.Sort).
		Offset(input.Pagination.Offset()).
		Limit(input.Pagination.ItemsPerPage)

	var records []bookRecord
	if err := query.Scan(&records).Error; err != nil {
		return nil, err
	}

	books := make([]BookSummary, 0, len(records))
	for _, rec := range records {
		books = append(books, rec.toSummary())
	}

	return &BookListDTO{
		Books: books,
		Page:  pagination.Build(input.Pagination, int(total)),
	}, nil
}

func (r *repository) FindBookDetail(ctx context.Context, id uuid.UUID, asOf time.Time) (*BookDetail, error) {
	query := r.booksQuery(ctx, ListBooksInput{}, asOf).Where("b.id = ?", id)

	var records []bookRecord
	if err := query.Limit(1).Scan(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	rec := records[0]
	return &BookDetail{
		BookSummary: rec.toSummary(),
		Description: rec.Description,
		ISBN:        rec.ISBN,
		CreatedAt:   rec.CreatedAt,
	}, nil
}

func (r *repository) ListAuthors(ctx context.Context) ([]AuthorDTO, error) {
	var rows []models.Author
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	authors := make([]AuthorDTO, 0, len(rows))
	for _, row := range rows {
		authors = append(authors, AuthorDTO{ID: row.ID, Name: row.Name, Bio: row.Bio})
	}
	return authors, nil
}

func (r *repository) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	var rows []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, CategoryDTO{ID: row.ID, Name: row.Name})
	}
	return categories, nil
}
