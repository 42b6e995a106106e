package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sweetnothings-bakery/super-receptionist/internal/model"
	"github.com/sweetnothings-bakery/super-receptionist/pkg/logger"
)

// CatalogStore persists the shop menu and cake designs.
type CatalogStore interface {
	ListMenuItems(ctx context.Context) ([]model.MenuItem, error)
	ReplaceMenuItems(ctx context.Context, items []model.MenuItem) error
	ListCakeDesigns(ctx context.Context) ([]model.CakeDesign, error)
	ReplaceCakeDesigns(ctx context.Context, designs []model.CakeDesign) error
}

// PromptStore persists the system prompt and conversion instructions.
type PromptStore interface {
	GetSystemPrompt(ctx context.Context) (*model.SystemPrompt, error)
	SetSystemPrompt(ctx context.Context, prompt string) (*model.SystemPrompt, error)
	SystemPromptHistory(ctx context.Context) ([]model.SystemPrompt, error)
	GetConversionInstructions(ctx context.Context) (*model.ConversionInstructions, error)
	SetConversionInstructions(ctx context.Context, instructions string, examples []map[string]any) error
}

// CatalogService exposes shop configuration operations and assembles the
// responder context from them.
type CatalogService struct {
	catalog CatalogStore
	prompts PromptStore
	logger  *logger.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalog CatalogStore, prompts PromptStore, log *logger.Logger) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		prompts: prompts,
		logger:  log,
	}
}

// Menu returns all menu items.
func (s *CatalogService) Menu(ctx context.Context) ([]model.MenuItem, error) {
	return s.catalog.ListMenuItems(ctx)
}

// ReplaceMenu replaces the full menu.
func (s *CatalogService) ReplaceMenu(ctx context.Context, items []model.MenuItem) error {
	for _, item := range items {
		if item.Name == "" {
			return fmt.Errorf("%w: menu item name required", ErrValidation)
		}
	}
	return s.catalog.ReplaceMenuItems(ctx, items)
}

// CakeDesigns returns all cake designs.
func (s *CatalogService) CakeDesigns(ctx context.Context) ([]model.CakeDesign, error) {
	return s.catalog.ListCakeDesigns(ctx)
}

// ReplaceCakeDesigns replaces the full set of cake designs.
func (s *CatalogService) ReplaceCakeDesigns(ctx context.Context, designs []model.CakeDesign) error {
	for _, design := range designs {
		if design.DesignID == "" || design.Name == "" {
			return fmt.Errorf("%w: design id and name required", ErrValidation)
		}
	}
	return s.catalog.ReplaceCakeDesigns(ctx, designs)
}

// SystemPrompt returns the current system prompt.
func (s *CatalogService) SystemPrompt(ctx context.Context) (*model.SystemPrompt, error) {
	return s.prompts.GetSystemPrompt(ctx)
}

// UpdateSystemPrompt overwrites the system prompt.
func (s *CatalogService) UpdateSystemPrompt(ctx context.Context, prompt string) (*model.SystemPrompt, error) {
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt cannot be empty", ErrValidation)
	}
	return s.prompts.SetSystemPrompt(ctx, prompt)
}

// SystemPromptHistory returns prior prompt versions.
func (s *CatalogService) SystemPromptHistory(ctx context.Context) ([]model.SystemPrompt, error) {
	return s.prompts.SystemPromptHistory(ctx)
}

// ConversionInstructions returns the screenshot-to-order instructions.
func (s *CatalogService) ConversionInstructions(ctx context.Context) (*model.ConversionInstructions, error) {
	return s.prompts.GetConversionInstructions(ctx)
}

// UpdateConversionInstructions overwrites the conversion instructions.
func (s *CatalogService) UpdateConversionInstructions(ctx context.Context, instructions string, examples []map[string]any) error {
	return s.prompts.SetConversionInstructions(ctx, instructions, examples)
}

// ResponderContext builds the system context for the AI responder out of the
// shop configuration: system prompt, menu, cake designs and conversion
// instructions.
func (s *CatalogService) ResponderContext(ctx context.Context) (string, error) {
	prompt, err := s.prompts.GetSystemPrompt(ctx)
	if err != nil {
		return "", err
	}
	menu, err := s.catalog.ListMenuItems(ctx)
	if err != nil {
		return "", err
	}
	designs, err := s.catalog.ListCakeDesigns(ctx)
	if err != nil {
		return "", err
	}
	instructions, err := s.prompts.GetConversionInstructions(ctx)
	if err != nil {
		return "", err
	}

	menuJSON, err := json.MarshalIndent(menu, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode menu: %w", err)
	}
	designsJSON, err := json.MarshalIndent(designs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode cake designs: %w", err)
	}

	return fmt.Sprintf(
		"System Prompt: %s\n\nShop Menu: %s\nCake Designs: %s\nConversion Instructions: %s\n",
		prompt.Prompt, menuJSON, designsJSON, instructions.Instructions,
	), nil
}
