package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetnothings-bakery/super-receptionist/internal/model"
	"github.com/sweetnothings-bakery/super-receptionist/internal/store"
	"github.com/sweetnothings-bakery/super-receptionist/pkg/logger"
)

type summaryKey struct {
	date    time.Time
	product string
}

type fakeOrderStore struct {
	orders    map[string]model.Order
	details   map[string][]model.OrderDetail
	summaries map[summaryKey]model.OrderSummary
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders:    make(map[string]model.Order),
		details:   make(map[string][]model.OrderDetail),
		summaries: make(map[summaryKey]model.OrderSummary),
	}
}

func (s *fakeOrderStore) CreateOrder(_ context.Context, order *model.Order) error {
	s.orders[order.OrderID] = *order
	return nil
}

func (s *fakeOrderStore) GetOrder(_ context.Context, orderID string) (*model.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	return &order, nil
}

func (s *fakeOrderStore) ListOrders(_ context.Context, limit int64) ([]model.Order, error) {
	var out []model.Order
	for _, order := range s.orders {
		out = append(out, order)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.After(out[j].DateTime) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeOrderStore) CreateOrderDetails(_ context.Context, details []model.OrderDetail) error {
	for _, detail := range details {
		s.details[detail.OrderID] = append(s.details[detail.OrderID], detail)
	}
	return nil
}

func (s *fakeOrderStore) ListOrderDetails(_ context.Context, orderID string) ([]model.OrderDetail, error) {
	return s.details[orderID], nil
}

func (s *fakeOrderStore) UpsertOrderSummary(_ context.Context, summary *model.OrderSummary) error {
	key := summaryKey{date: summary.SummaryDate, product: summary.ProductType}
	existing, ok := s.summaries[key]
	if !ok {
		s.summaries[key] = *summary
		return nil
	}
	existing.TotalQuantity += summary.TotalQuantity
	if summary.TotalRevenue != nil {
		revenue := *summary.TotalRevenue
		if existing.TotalRevenue != nil {
			revenue += *existing.TotalRevenue
		}
		existing.TotalRevenue = &revenue
	}
	s.summaries[key] = existing
	return nil
}

func (s *fakeOrderStore) ListOrderSummaries(_ context.Context, start, end time.Time) ([]model.OrderSummary, error) {
	var out []model.OrderSummary
	for key, summary := range s.summaries {
		if !key.date.Before(start) && !key.date.After(end) {
			out = append(out, summary)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SummaryDate.Before(out[j].SummaryDate) })
	return out, nil
}

func newTestOrderService() (*OrderService, *fakeOrderStore) {
	orderStore := newFakeOrderStore()
	return NewOrderService(orderStore, logger.NewNop()), orderStore
}

func TestCreateOrderStampsDetailsAndSummaries(t *testing.T) {
	svc, _ := newTestOrderService()

	subtotal := 50.0
	when := time.Date(2026, 8, 15, 14, 30, 0, 0, time.UTC)
	order, err := svc.Create(context.Background(), &model.CreateOrderRequest{
		Order: model.Order{OrderID: "o1", Customer: "Mei", Total: 50, DateTime: when},
		Details: []model.OrderDetail{
			{OrderDetailID: "od1", ProductName: "Chocolate Cake", Quantity: 2, Subtotal: &subtotal},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "o1", order.OrderID)

	details, err := svc.Details(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "o1", details[0].OrderID)

	day := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	summaries, err := svc.Summaries(context.Background(), day, day)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Chocolate Cake", summaries[0].ProductType)
	assert.Equal(t, 2, summaries[0].TotalQuantity)
}

func TestCreateOrderAccumulatesSameDaySummaries(t *testing.T) {
	svc, _ := newTestOrderService()

	when := time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"o1", "o2"} {
		subtotal := 25.0
		_, err := svc.Create(context.Background(), &model.CreateOrderRequest{
			Order: model.Order{OrderID: id, Customer: "Mei", DateTime: when.Add(time.Duration(i) * time.Hour)},
			Details: []model.OrderDetail{
				{ProductName: "Croissant", Quantity: 3, Subtotal: &subtotal},
			},
		})
		require.NoError(t, err)
	}

	day := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	summaries, err := svc.Summaries(context.Background(), day, day)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 6, summaries[0].TotalQuantity)
	require.NotNil(t, summaries[0].TotalRevenue)
	assert.Equal(t, 50.0, *summaries[0].TotalRevenue)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _ := newTestOrderService()

	_, err := svc.Create(context.Background(), &model.CreateOrderRequest{
		Order: model.Order{Customer: "Mei"},
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), &model.CreateOrderRequest{
		Order: model.Order{OrderID: "o1"},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetOrderNotFound(t *testing.T) {
	svc, _ := newTestOrderService()

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSummariesRejectsInvertedRange(t *testing.T) {
	svc, _ := newTestOrderService()

	start := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	_, err := svc.Summaries(context.Background(), start, start.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrValidation)
}
