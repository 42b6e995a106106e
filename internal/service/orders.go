package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sweetnothings-bakery/super-receptionist/internal/model"
	"github.com/sweetnothings-bakery/super-receptionist/internal/store"
	"github.com/sweetnothings-bakery/super-receptionist/pkg/logger"
)

// OrderStore persists orders, line items and daily summaries.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	ListOrders(ctx context.Context, limit int64) ([]model.Order, error)
	CreateOrderDetails(ctx context.Context, details []model.OrderDetail) error
	ListOrderDetails(ctx context.Context, orderID string) ([]model.OrderDetail, error)
	UpsertOrderSummary(ctx context.Context, summary *model.OrderSummary) error
	ListOrderSummaries(ctx context.Context, start, end time.Time) ([]model.OrderSummary, error)
}

// OrderService exposes order bookkeeping operations.
type OrderService struct {
	store  OrderStore
	logger *logger.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(store OrderStore, log *logger.Logger) *OrderService {
	return &OrderService{store: store, logger: log}
}

// Create persists an order together with its line items and folds the items
// into the daily per-product summaries.
func (s *OrderService) Create(ctx context.Context, req *model.CreateOrderRequest) (*model.Order, error) {
	order := req.Order
	if order.OrderID == "" {
		return nil, fmt.Errorf("%w: order id required", ErrValidation)
	}
	if order.Customer == "" {
		return nil, fmt.Errorf("%w: customer required", ErrValidation)
	}
	if order.DateTime.IsZero() {
		order.DateTime = time.Now().UTC()
	}

	if err := s.store.CreateOrder(ctx, &order); err != nil {
		return nil, err
	}

	details := req.Details
	for i := range details {
		details[i].OrderID = order.OrderID
	}
	if err := s.store.CreateOrderDetails(ctx, details); err != nil {
		return nil, err
	}

	day := order.DateTime.UTC().Truncate(24 * time.Hour)
	for _, detail := range details {
		summary := &model.OrderSummary{
			SummaryDate:   day,
			ProductType:   detail.ProductName,
			TotalQuantity: detail.Quantity,
			TotalRevenue:  detail.Subtotal,
		}
		if err := s.store.UpsertOrderSummary(ctx, summary); err != nil {
			return nil, err
		}
	}

	return &order, nil
}

// Get returns one order by its order id.
func (s *OrderService) Get(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if errors.Is(err, store.ErrOrderNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// List returns orders newest-first.
func (s *OrderService) List(ctx context.Context, limit int64) ([]model.Order, error) {
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	return s.store.ListOrders(ctx, limit)
}

// Details returns the line items of an order.
func (s *OrderService) Details(ctx context.Context, orderID string) ([]model.OrderDetail, error) {
	return s.store.ListOrderDetails(ctx, orderID)
}

// Summaries returns per-product summaries in a date range.
func (s *OrderService) Summaries(ctx context.Context, start, end time.Time) ([]model.OrderSummary, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", ErrValidation)
	}
	return s.store.ListOrderSummaries(ctx, start, end)
}
