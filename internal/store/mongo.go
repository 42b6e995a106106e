// Package store provides the MongoDB document store adapter.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sweetnothings-bakery/super-receptionist/pkg/logger"
	"github.com/sweetnothings-bakery/super-receptionist/pkg/metrics"
)

const (
	collChatHistory  = "chat_history"
	collMenuItems    = "menu_items"
	collCakeDesigns  = "cake_designs"
	collPrompts      = "prompts"
	collImages       = "images"
	collOrders       = "orders"
	collOrderDetails = "order_details"
	collSummaries    = "order_summaries"
)

// Config holds MongoDB connection configuration.
type Config struct {
	URL            string
	Database       string
	ConnectTimeout time.Duration
}

// Client wraps the MongoDB connection and database handle.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	logger *logger.Logger
}

// Connect establishes a connection to MongoDB and verifies it with a ping.
func Connect(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URL).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{
		client: client,
		db:     client.Database(cfg.Database),
		logger: log,
	}, nil
}

// EnsureIndexes creates the indexes the query paths rely on.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	chat := c.db.Collection(collChatHistory)
	_, err := chat.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "seq", Value: 1}}},
		{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create chat_history indexes: %w", err)
	}

	orders := c.db.Collection(collOrders)
	_, err = orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "date_time", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create orders indexes: %w", err)
	}

	details := c.db.Collection(collOrderDetails)
	if _, err := details.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "order_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create order_details index: %w", err)
	}

	summaries := c.db.Collection(collSummaries)
	if _, err := summaries.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "summary_date", Value: 1}, {Key: "product_type", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create order_summaries index: %w", err)
	}

	return nil
}

// Ping verifies the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

func (c *Client) collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// observe records a store operation duration metric.
func observe(collection, operation string, start time.Time) {
	metrics.StoreOperationDuration.
		WithLabelValues(collection, operation).
		Observe(time.Since(start).Seconds())
}
