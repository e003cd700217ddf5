package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bookwormhq/bookworm-backend/api/responses"
	"github.com/bookwormhq/bookworm-backend/api/validators"
	"github.com/bookwormhq/bookworm-backend/internal/catalog"
	"github.com/bookwormhq/bookworm-backend/pkg/enums"
	pkgerrors "github.com/bookwormhq/bookworm-backend/pkg/errors"
	"github.com/bookwormhq/bookworm-backend/pkg/logger"
)

func BooksList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		authorID, err := validators.ParseQueryUUID(r, "author_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.ListBooksInput{
			Pagination:   params,
			CategoryName: strings.TrimSpace(r.URL.Query().Get("category_name")),
			AuthorName:   strings.TrimSpace(r.URL.Query().Get("author_name")),
			CategoryID:   categoryID,
			AuthorID:     authorID,
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("sort_by")); raw != "" {
			sort, err := enums.ParseBookSort(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort_by"))
				return
			}
			input.Sort = sort
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("min_rating")); raw != "" {
			minRating, err := strconv.ParseFloat(raw, 64)
			if err != nil || minRating < 0 || minRating > 5 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "min_rating must be between 0 and 5"))
				return
			}
			input.MinRating = minRating
		}

		list, err := svc.ListBooks(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func BooksGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID, err := parseBookID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		book, err := svc.GetBook(r.Context(), bookID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, book)
	}
}

func AuthorsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authors, err := svc.ListAuthors(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"authors": authors})
	}
}

func CategoriesList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

func parseBookID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "bookId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "book id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "book id must be a uuid")
	}
	return id, nil
}
