package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bookwormhq/bookworm-backend/internal/catalog"
	"github.com/bookwormhq/bookworm-backend/internal/users"
	"github.com/bookwormhq/bookworm-backend/pkg/db/models"
	"github.com/bookwormhq/bookworm-backend/pkg/enums"
	pkgerrors "github.com/bookwormhq/bookworm-backend/pkg/errors"
	"github.com/bookwormhq/bookworm-backend/pkg/outbox"
	"github.com/bookwormhq/bookworm-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service exposes order placement and history.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*PlaceOrderResult, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]OrderSummaryDTO, pagination.Page, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetailDTO, error)
}

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Repo        Repository
	CatalogRepo catalog.Repository
	UserRepo    userFinder
	Tx          txRunner
	Outbox      outboxPublisher
	MaxQuantity int
}

type service struct {
	repo    Repository
	catalog catalog.Repository
	users   userFinder
	tx      txRunner
	outbox  outboxPublisher
	maxQty  int
	now     func() time.Time
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbox publisher is required")
	}
	maxQty := params.MaxQuantity
	if maxQty <= 0 {
		maxQty = 8
	}
	return &service{
		repo:    params.Repo,
		catalog: params.CatalogRepo,
		users:   params.UserRepo,
		tx:      params.Tx,
		outbox:  params.Outbox,
		maxQty:  maxQty,
		now:     time.Now,
	}, nil
}

// PlaceOrder validates the submitted lines against live pricing and persists
// the order atomically. Pricing reads, validation, and inserts share one
// transaction so a discount window cannot move between the read and the
// commit. A non-empty error map means nothing was written; the result still
// carries an informational total over the clean subset.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*PlaceOrderResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.checkLines(input.Lines); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ids := make([]uuid.UUID, 0, len(input.Lines))
	for _, line := range input.Lines {
		ids = append(ids, line.BookID)
	}

	var result *PlaceOrderResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)
		asOf := s.now()

		pricing, err := catalogRepo.FindBooksWithPricing(ctx, ids, asOf)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve pricing")
		}

		lineErrors, validLines := ValidateLines(input.Lines, pricing)

		items := make([]PlacedItemDTO, 0, len(validLines))
		total := decimal.Zero
		for _, line := range validLines {
			final := pricing[line.BookID].FinalPrice
			items = append(items, PlacedItemDTO{
				BookID:    line.BookID,
				Quantity:  line.Quantity,
				UnitPrice: final.Round(2),
			})
			total = total.Add(final.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		total = total.Round(2)

		result = &PlaceOrderResult{
			Items:      items,
			TotalPrice: total,
			User:       users.FromModel(user),
		}

		// Rejection writes nothing; the diagnostics travel back as data.
		if len(lineErrors) > 0 {
			result.Errors = lineErrors
			return nil
		}

		order := &models.Order{
			UserID:     userID,
			TotalPrice: total,
		}
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		lineItems := make([]models.OrderLineItem, 0, len(items))
		for _, item := range items {
			lineItems = append(lineItems, models.OrderLineItem{
				OrderID:   order.ID,
				BookID:    item.BookID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		if err := repo.CreateOrderLineItems(ctx, lineItems); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order line items")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: userID},
			Data: OrderCreatedEvent{
				OrderID:    order.ID,
				UserID:     userID,
				TotalPrice: total,
				ItemCount:  len(lineItems),
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit order event")
		}

		orderID := order.ID
		createdAt := order.CreatedAt
		result.OrderID = &orderID
		result.CreatedAt = &createdAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]OrderSummaryDTO, pagination.Page, error) {
	if userID == uuid.Nil {
		return nil, pagination.Page{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	normalized, err := pagination.Normalize(params)
	if err != nil {
		return nil, pagination.Page{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pagination")
	}

	rows, total, err := s.repo.ListUserOrders(ctx, userID, normalized)
	if err != nil {
		return nil, pagination.Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, pagination.Build(normalized, total), nil
}

func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetailDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	// Orders belonging to other users read as absent.
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	items := make([]PlacedItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, PlacedItemDTO{
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return &OrderDetailDTO{
		ID:         order.ID,
		TotalPrice: order.TotalPrice,
		Items:      items,
		CreatedAt:  order.CreatedAt,
	}, nil
}

// checkLines enforces the structural rules that never reach the pricing
// engine: non-empty request, quantity bounds, and unique book ids.
func (s *service) checkLines(lines []RequestLine) error {
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if line.BookID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "book id is required")
		}
		if line.Quantity < 1 || line.Quantity > s.maxQty {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity out of range")
		}
		if _, dup := seen[line.BookID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate book in order")
		}
		seen[line.BookID] = struct{}{}
	}
	return nil
}
