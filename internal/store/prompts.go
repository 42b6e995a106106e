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

const (
	docSystemPrompt           = "system_prompt"
	docConversionInstructions = "conversion_instructions"
)

// DefaultSystemPrompt seeds the prompt document on first read.
const DefaultSystemPrompt = `You are an AI assistant for order processing. Your role is to:
1. Extract order information from text screenshots
2. Convert order details to structured JSON format
3. Help populate spreadsheets with order data
4. Generate invoices from order information

Be helpful, accurate, and follow the shop owner's specific instructions for order processing.`

// promptDoc is the storage shape of the singleton prompt documents.
type promptDoc struct {
	ID        string               `bson:"_id"`
	Prompt    string               `bson:"prompt,omitempty"`
	Version   int                  `bson:"version,omitempty"`
	History   []model.SystemPrompt `bson:"history,omitempty"`
	UpdatedAt time.Time            `bson:"updated_at"`

	Instructions string           `bson:"instructions,omitempty"`
	Examples     []map[string]any `bson:"examples,omitempty"`
}

// PromptStore persists the system prompt and conversion instructions.
type PromptStore struct {
	client *Client
}

// NewPromptStore creates a prompt store on the shared client.
func NewPromptStore(client *Client) *PromptStore {
	return &PromptStore{client: client}
}

// GetSystemPrompt returns the current system prompt, falling back to the
// default when none has been configured yet.
func (s *PromptStore) GetSystemPrompt(ctx context.Context) (*model.SystemPrompt, error) {
	defer observe(collPrompts, "find_one", time.Now())

	var doc promptDoc
	err := s.client.collection(collPrompts).
		FindOne(ctx, bson.M{"_id": docSystemPrompt}).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &model.SystemPrompt{Prompt: DefaultSystemPrompt, Version: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load system prompt: %w", err)
	}

	return &model.SystemPrompt{
		Prompt:    doc.Prompt,
		Version:   doc.Version,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// SetSystemPrompt overwrites the system prompt, keeping the previous version
// in the document's history list.
func (s *PromptStore) SetSystemPrompt(ctx context.Context, prompt string) (*model.SystemPrompt, error) {
	defer observe(collPrompts, "upsert", time.Now())

	current, err := s.GetSystemPrompt(ctx)
	if err != nil {
		return nil, err
	}

	next := model.SystemPrompt{
		Prompt:    prompt,
		Version:   current.Version + 1,
		UpdatedAt: time.Now().UTC(),
	}

	_, err = s.client.collection(collPrompts).UpdateOne(ctx,
		bson.M{"_id": docSystemPrompt},
		bson.M{
			"$set": bson.M{
				"prompt":     next.Prompt,
				"version":    next.Version,
				"updated_at": next.UpdatedAt,
			},
			"$push": bson.M{"history": current},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save system prompt: %w", err)
	}
	return &next, nil
}

// SystemPromptHistory returns prior prompt versions, current last.
func (s *PromptStore) SystemPromptHistory(ctx context.Context) ([]model.SystemPrompt, error) {
	defer observe(collPrompts, "find_one", time.Now())

	var doc promptDoc
	err := s.client.collection(collPrompts).
		FindOne(ctx, bson.M{"_id": docSystemPrompt}).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []model.SystemPrompt{{Prompt: DefaultSystemPrompt, Version: 1}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load system prompt history: %w", err)
	}

	history := append([]model.SystemPrompt{}, doc.History...)
	history = append(history, model.SystemPrompt{
		Prompt:    doc.Prompt,
		Version:   doc.Version,
		UpdatedAt: doc.UpdatedAt,
	})
	return history, nil
}

// GetConversionInstructions returns the screenshot-to-order instructions.
func (s *PromptStore) GetConversionInstructions(ctx context.Context) (*model.ConversionInstructions, error) {
	defer observe(collPrompts, "find_one", time.Now())

	var doc promptDoc
	err := s.client.collection(collPrompts).
		FindOne(ctx, bson.M{"_id": docConversionInstructions}).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &model.ConversionInstructions{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversion instructions: %w", err)
	}

	return &model.ConversionInstructions{
		Instructions: doc.Instructions,
		Examples:     doc.Examples,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

// SetConversionInstructions overwrites the conversion instructions.
func (s *PromptStore) SetConversionInstructions(ctx context.Context, instructions string, examples []map[string]any) error {
	defer observe(collPrompts, "upsert", time.Now())

	_, err := s.client.collection(collPrompts).UpdateOne(ctx,
		bson.M{"_id": docConversionInstructions},
		bson.M{"$set": bson.M{
			"instructions": instructions,
			"examples":     examples,
			"updated_at":   time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save conversion instructions: %w", err)
	}
	return nil
}
