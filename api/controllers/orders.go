package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookwormhq/bookworm-backend/api/middleware"
	"github.com/bookwormhq/bookworm-backend/api/responses"
	"github.com/bookwormhq/bookworm-backend/api/validators"
	"github.com/bookwormhq/bookworm-backend/internal/orders"
	pkgerrors "github.com/bookwormhq/bookworm-backend/pkg/errors"
	"github.com/bookwormhq/bookworm-backend/pkg/logger"
	"github.com/bookwormhq/bookworm-backend/pkg/pagination"
)

type orderItemRequest struct {
	BookID   uuid.UUID        `json:"book_id" validate:"required"`
	Quantity int              `json:"quantity" validate:"required,min=1,max=8"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

type createOrderRequest struct {
	Items []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrdersCreate submits an order. Per-line pricing mismatches come back in the
// response body keyed by book id rather than as an HTTP failure, so the client
// can re-render the cart with fresh prices.
func OrdersCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]orders.RequestLine, 0, len(req.Items))
		for _, item := range req.Items {
			lines = append(lines, orders.RequestLine{
				BookID:      item.BookID,
				Quantity:    item.Quantity,
				ClientPrice: item.Price,
			})
		}

		userID := middleware.UserUUIDFromContext(r.Context())
		result, err := svc.PlaceOrder(r.Context(), userID, orders.PlaceOrderInput{Lines: lines})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil && result.OrderID != nil {
			ctx := logg.WithOrderID(r.Context(), result.OrderID.String())
			logg.Info(ctx, "order placed")
		}

		status := http.StatusCreated
		if len(result.Errors) > 0 {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}

// OrdersGet returns one of the caller's orders with its line items. Orders
// owned by other users are indistinguishable from missing ones.
func OrdersGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
		orderID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id must be a uuid"))
			return
		}

		userID := middleware.UserUUIDFromContext(r.Context())
		order, err := svc.GetOrder(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrdersListMine(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserUUIDFromContext(r.Context())
		rows, page, err := svc.ListUserOrders(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderListResponse{Orders: rows, Pagination: page})
	}
}

type orderListResponse struct {
	Orders     []orders.OrderSummaryDTO `json:"orders"`
	Pagination pagination.Page          `json:"pagination"`
}
