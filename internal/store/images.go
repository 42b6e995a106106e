package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sweetnothings-bakery/super-receptionist/internal/model"
)

// ErrImageNotFound is returned when an image id does not resolve.
var ErrImageNotFound = errors.New("image not found")

// ImageStore persists uploaded images.
type ImageStore struct {
	client *Client
}

// NewImageStore creates an image store on the shared client.
func NewImageStore(client *Client) *ImageStore {
	return &ImageStore{client: client}
}

// Save persists an uploaded image.
func (s *ImageStore) Save(ctx context.Context, img *model.UploadedImage) error {
	defer observe(collImages, "insert", time.Now())

	img.CreatedAt = time.Now().UTC()
	if _, err := s.client.collection(collImages).InsertOne(ctx, img); err != nil {
		return fmt.Errorf("failed to insert image: %w", err)
	}
	return nil
}

// Get returns an uploaded image by id.
func (s *ImageStore) Get(ctx context.Context, id string) (*model.UploadedImage, error) {
	defer observe(collImages, "find_one", time.Now())

	var img model.UploadedImage
	err := s.client.collection(collImages).
		FindOne(ctx, bson.M{"_id": id}).
		Decode(&img)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find image: %w", err)
	}
	return &img, nil
}
