package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/bookwormhq/bookworm-backend/pkg/errors"
	"github.com/bookwormhq/bookworm-backend/pkg/pagination"
)

// Service exposes the public catalog browsing surface.
type Service interface {
	ListBooks(ctx context.Context, input ListBooksInput) (*BookListDTO, error)
	GetBook(ctx context.Context, id uuid.UUID) (*BookDetail, error)
	ListAuthors(ctx context.Context) ([]AuthorDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{
		repo: repo,
		now:  time.Now,
	}, nil
}

func (s *service) ListBooks(ctx context.Context, input ListBooksInput) (*BookListDTO, error) {
	params, err := pagination.Normalize(input.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pagination")
	}
	input.Pagination = params

	if input.Sort != "" && !input.Sort.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort mode")
	}

	list, err := s.repo.ListBooks(ctx, input, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list books")
	}
	return list, nil
}

func (s *service) GetBook(ctx context.Context, id uuid.UUID) (*BookDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "book id is required")
	}
	detail, err := s.repo.FindBookDetail(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}
	return detail, nil
}

func (s *service) ListAuthors(ctx context.Context) ([]AuthorDTO, error) {
	authors, err := s.repo.ListAuthors(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list authors")
	}
	return authors, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}
