package controllers

import (
	"net/http"
	"strings"

	"github.com/bookwormhq/bookworm-backend/api/middleware"
	"github.com/bookwormhq/bookworm-backend/api/responses"
	"github.com/bookwormhq/bookworm-backend/api/validators"
	"github.com/bookwormhq/bookworm-backend/internal/reviews"
	"github.com/bookwormhq/bookworm-backend/pkg/enums"
	pkgerrors "github.com/bookwormhq/bookworm-backend/pkg/errors"
	"github.com/bookwormhq/bookworm-backend/pkg/logger"
)

type createReviewRequest struct {
	Rating int     `json:"rating" validate:"required,min=1,max=5"`
	Title  string  `json:"title" validate:"required,max=200"`
	Body   *string `json:"body,omitempty" validate:"omitempty,max=5000"`
}

func ReviewsList(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID, err := parseBookID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := reviews.ListReviewsInput{Pagination: params}

		if raw := strings.TrimSpace(r.URL.Query().Get("sort_by")); raw != "" {
			sort, err := enums.ParseReviewSort(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort_by"))
				return
			}
			input.Sort = sort
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("stars")); raw != "" {
			stars, err := validators.ParseQueryInt(r, "stars", 0, 1, 5)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Stars = &stars
		}

		list, err := svc.ListForBook(r.Context(), bookID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ReviewsCreate(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID, err := parseBookID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createReviewRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserUUIDFromContext(r.Context())
		review, err := svc.Create(r.Context(), userID, bookID, reviews.CreateReviewInput{
			Rating: req.Rating,
			Title:  req.Title,
			Body:   req.Body,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}
