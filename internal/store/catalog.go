package store

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/sweetnothings-bakery/super-receptionist/internal/model"
)

// CatalogStore persists menu items and cake designs.
type CatalogStore struct {
	client *Client
}

// NewCatalogStore creates a catalog store on the shared client.
func NewCatalogStore(client *Client) *CatalogStore {
	return &CatalogStore{client: client}
}

// ListMenuItems returns all menu items.
func (s *CatalogStore) ListMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	defer observe(collMenuItems, "find", time.Now())

	cursor, err := s.client.collection(collMenuItems).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}

	var items []model.MenuItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode menu items: %w", err)
	}
	return items, nil
}

// ReplaceMenuItems replaces the full menu with the given items.
func (s *CatalogStore) ReplaceMenuItems(ctx context.Context, items []model.MenuItem) error {
	defer observe(collMenuItems, "replace_all", time.Now())

	coll := s.client.collection(collMenuItems)
	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("failed to clear menu items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]any, len(items))
	for i := range items {
		items[i].ID = ""
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
		docs[i] = items[i]
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert menu items: %w", err)
	}
	return nil
}

// ListCakeDesigns returns all cake designs. Designs stored with inline binary
// image data get a base64 data URL populated for the caller.
func (s *CatalogStore) ListCakeDesigns(ctx context.Context) ([]model.CakeDesign, error) {
	defer observe(collCakeDesigns, "find", time.Now())

	cursor, err := s.client.collection(collCakeDesigns).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query cake designs: %w", err)
	}

	var designs []model.CakeDesign
	if err := cursor.All(ctx, &designs); err != nil {
		return nil, fmt.Errorf("failed to decode cake designs: %w", err)
	}

	for i := range designs {
		if len(designs[i].ImageData) > 0 {
			designs[i].ImageURL = "data:image/png;base64," +
				base64.StdEncoding.EncodeToString(designs[i].ImageData)
			designs[i].ImageData = nil
		}
	}
	return designs, nil
}

// ReplaceCakeDesigns replaces all cake designs. Base64 data URLs are decoded
// and stored as binary instead of as text.
func (s *CatalogStore) ReplaceCakeDesigns(ctx context.Context, designs []model.CakeDesign) error {
	defer observe(collCakeDesigns, "replace_all", time.Now())

	coll := s.client.collection(collCakeDesigns)
	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("failed to clear cake designs: %w", err)
	}
	if len(designs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]any, 0, len(designs))
	for _, design := range designs {
		design.ID = ""
		design.CreatedAt = now
		design.UpdatedAt = now

		if strings.HasPrefix(design.ImageURL, "data:image") {
			if _, encoded, ok := strings.Cut(design.ImageURL, ","); ok {
				data, err := base64.StdEncoding.DecodeString(encoded)
				if err != nil {
					s.client.logger.Warn("skipping undecodable design image",
						zap.String("design_id", design.DesignID),
						zap.Error(err),
					)
				} else {
					design.ImageData = data
					design.ImageURL = ""
				}
			}
		}
		docs = append(docs, design)
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert cake designs: %w", err)
	}
	return nil
}
