package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookwormhq/bookworm-backend/internal/users"
	"github.com/bookwormhq/bookworm-backend/pkg/enums"
)

// RequestLine is one requested book in an order submission. ClientPrice is
// the price the client last saw; nil means the client defers to the server.
type RequestLine struct {
	BookID      uuid.UUID
	Quantity    int
	ClientPrice *decimal.Decimal
}

// PlaceOrderInput carries the full order submission.
type PlaceOrderInput struct {
	Lines []RequestLine
}

// LineError is the typed per-line diagnostic produced by validation.
// OldPrice is the price the client submitted, NewPrice the effective price
// the server resolved, RegularPrice the undiscounted list price.
type LineError struct {
	Type         enums.OrderLineErrorType `json:"type"`
	OldPrice     *decimal.Decimal         `json:"old_price,omitempty"`
	NewPrice     *decimal.Decimal         `json:"new_price,omitempty"`
	RegularPrice *decimal.Decimal         `json:"regular_price,omitempty"`
}

// PlacedItemDTO is the priced line returned after placement.
type PlacedItemDTO struct {
	BookID    uuid.UUID       `json:"book_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
}

// PlaceOrderResult reports the outcome of an order submission. When Errors is
// non-empty no order was persisted and TotalPrice is informational, computed
// over the lines that validated cleanly.
type PlaceOrderResult struct {
	OrderID    *uuid.UUID              `json:"order_id,omitempty"`
	Items      []PlacedItemDTO         `json:"items"`
	TotalPrice decimal.Decimal         `json:"total_price"`
	User       *users.UserDTO          `json:"user,omitempty"`
	Errors     map[uuid.UUID]LineError `json:"errors,omitempty"`
	CreatedAt  *time.Time              `json:"created_at,omitempty"`
}

// OrderSummaryDTO is the listing projection for a user's order history.
type OrderSummaryDTO struct {
	ID         uuid.UUID       `json:"id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	ItemCount  int             `json:"item_count"`
	CreatedAt  time.Time       `json:"created_at"`
}

// OrderDetailDTO is the full projection of a single persisted order.
type OrderDetailDTO struct {
	ID         uuid.UUID       `json:"id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Items      []PlacedItemDTO `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
}

// OrderCreatedEvent is the payload emitted on the outbox when an order commits.
type OrderCreatedEvent struct {
	OrderID    uuid.UUID       `json:"order_id"`
	UserID     uuid.UUID       `json:"user_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	ItemCount  int             `json:"item_count"`
}
