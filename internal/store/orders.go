package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sweetnothings-bakery/super-receptionist/internal/model"
)

// ErrOrderNotFound is returned when an order id does not resolve.
var ErrOrderNotFound = errors.New("order not found")

// OrderStore persists orders, order details and daily summaries.
type OrderStore struct {
	client *Client
}

// NewOrderStore creates an order store on the shared client.
func NewOrderStore(client *Client) *OrderStore {
	return &OrderStore{client: client}
}

// CreateOrder inserts an order.
func (s *OrderStore) CreateOrder(ctx context.Context, order *model.Order) error {
	defer observe(collOrders, "insert", time.Now())

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	if _, err := s.client.collection(collOrders).InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// GetOrder returns one order by its order_id.
func (s *OrderStore) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	defer observe(collOrders, "find_one", time.Now())

	var order model.Order
	err := s.client.collection(collOrders).
		FindOne(ctx, bson.M{"order_id": orderID}).
		Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &order, nil
}

// ListOrders returns orders newest-first, capped at limit.
func (s *OrderStore) ListOrders(ctx context.Context, limit int64) ([]model.Order, error) {
	defer observe(collOrders, "find", time.Now())

	cursor, err := s.client.collection(collOrders).Find(ctx, bson.D{},
		options.Find().
			SetSort(bson.D{{Key: "date_time", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	var orders []model.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// CreateOrderDetails inserts the line items for an order.
func (s *OrderStore) CreateOrderDetails(ctx context.Context, details []model.OrderDetail) error {
	defer observe(collOrderDetails, "insert_many", time.Now())

	if len(details) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]any, len(details))
	for i := range details {
		details[i].CreatedAt = now
		docs[i] = details[i]
	}
	if _, err := s.client.collection(collOrderDetails).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert order details: %w", err)
	}
	return nil
}

// ListOrderDetails returns all line items for an order.
func (s *OrderStore) ListOrderDetails(ctx context.Context, orderID string) ([]model.OrderDetail, error) {
	defer observe(collOrderDetails, "find", time.Now())

	cursor, err := s.client.collection(collOrderDetails).Find(ctx,
		bson.M{"order_id": orderID})
	if err != nil {
		return nil, fmt.Errorf("failed to query order details: %w", err)
	}

	var details []model.OrderDetail
	if err := cursor.All(ctx, &details); err != nil {
		return nil, fmt.Errorf("failed to decode order details: %w", err)
	}
	return details, nil
}

// UpsertOrderSummary folds quantities and revenue into the daily per-product
// summary row, creating it when absent.
func (s *OrderStore) UpsertOrderSummary(ctx context.Context, summary *model.OrderSummary) error {
	defer observe(collSummaries, "upsert", time.Now())

	inc := bson.M{"total_quantity": summary.TotalQuantity}
	if summary.TotalRevenue != nil {
		inc["total_revenue"] = *summary.TotalRevenue
	}

	_, err := s.client.collection(collSummaries).UpdateOne(ctx,
		bson.M{
			"summary_date": summary.SummaryDate,
			"product_type": summary.ProductType,
		},
		bson.M{"$inc": inc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert order summary: %w", err)
	}
	return nil
}

// ListOrderSummaries returns summaries in a date range, oldest first.
func (s *OrderStore) ListOrderSummaries(ctx context.Context, start, end time.Time) ([]model.OrderSummary, error) {
	defer observe(collSummaries, "find", time.Now())

	cursor, err := s.client.collection(collSummaries).Find(ctx,
		bson.M{"summary_date": bson.M{"$gte": start, "$lte": end}},
		options.Find().SetSort(bson.D{{Key: "summary_date", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query order summaries: %w", err)
	}

	var summaries []model.OrderSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode order summaries: %w", err)
	}
	return summaries, nil
}
