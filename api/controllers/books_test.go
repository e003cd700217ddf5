package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/bookwormhq/bookworm-backend/internal/catalog"
)

type stubCatalogService struct {
	listBooks func(ctx context.Context, input catalog.ListBooksInput) (*catalog.BookListDTO, error)
}

func (s *stubCatalogService) ListBooks(ctx context.Context, input catalog.ListBooksInput) (*catalog.BookListDTO, error) {
	return s.listBooks(ctx, input)
}

func (s *stubCatalogService) GetBook(ctx context.Context, id uuid.UUID) (*catalog.BookDetail, error) {
	return nil, nil
}

func (s *stubCatalogService) ListAuthors(ctx context.Context) ([]catalog.AuthorDTO, error) {
	return nil, nil
}

func (s *stubCatalogService) ListCategories(ctx context.Context) ([]catalog.CategoryDTO, error) {
	return nil, nil
}

func TestBooksListPassesIDFilters(t *testing.T) {
	authorID := uuid.New()
	categoryID := uuid.New()

	var got catalog.ListBooksInput
	svc := &stubCatalogService{
		listBooks: func(ctx context.Context, input catalog.ListBooksInput) (*catalog.BookListDTO, error) {
			got = input
			return &catalog.BookListDTO{}, nil
		},
	}

	target := "/api/v1/books?author_id=" + authorID.String() + "&category_id=" + categoryID.String()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	BooksList(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.AuthorID != authorID {
		t.Fatalf("expected author id %s, got %s", authorID, got.AuthorID)
	}
	if got.CategoryID != categoryID {
		t.Fatalf("expected category id %s, got %s", categoryID, got.CategoryID)
	}
}

func TestBooksListOmitsIDFiltersWhenAbsent(t *testing.T) {
	var got catalog.ListBooksInput
	svc := &stubCatalogService{
		listBooks: func(ctx context.Context, input catalog.ListBooksInput) (*catalog.BookListDTO, error) {
			got = input
			return &catalog.BookListDTO{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	rec := httptest.NewRecorder()
	BooksList(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.AuthorID != uuid.Nil || got.CategoryID != uuid.Nil {
		t.Fatalf("expected zero id filters, got author %s category %s", got.AuthorID, got.CategoryID)
	}
}

func TestBooksListRejectsMalformedAuthorID(t *testing.T) {
	svc := &stubCatalogService{
		listBooks: func(ctx context.Context, input catalog.ListBooksInput) (*catalog.BookListDTO, error) {
			t.Fatal("service should not be called for a malformed author_id")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books?author_id=not-a-uuid", nil)
	rec := httptest.NewRecorder()
	BooksList(svc, nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
