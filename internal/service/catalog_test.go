package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetnothings-bakery/super-receptionist/internal/model"
	"github.com/sweetnothings-bakery/super-receptionist/pkg/logger"
)

type fakeCatalogStore struct {
	menu    []model.MenuItem
	designs []model.CakeDesign
}

func (s *fakeCatalogStore) ListMenuItems(context.Context) ([]model.MenuItem, error) {
	return s.menu, nil
}

func (s *fakeCatalogStore) ReplaceMenuItems(_ context.Context, items []model.MenuItem) error {
	s.menu = items
	return nil
}

func (s *fakeCatalogStore) ListCakeDesigns(context.Context) ([]model.CakeDesign, error) {
	return s.designs, nil
}

func (s *fakeCatalogStore) ReplaceCakeDesigns(_ context.Context, designs []model.CakeDesign) error {
	s.designs = designs
	return nil
}

type fakePromptStore struct {
	prompt       model.SystemPrompt
	history      []model.SystemPrompt
	instructions model.ConversionInstructions
}

func (s *fakePromptStore) GetSystemPrompt(context.Context) (*model.SystemPrompt, error) {
	copied := s.prompt
	return &copied, nil
}

func (s *fakePromptStore) SetSystemPrompt(_ context.Context, prompt string) (*model.SystemPrompt, error) {
	s.history = append(s.history, s.prompt)
	s.prompt = model.SystemPrompt{
		Prompt:    prompt,
		Version:   s.prompt.Version + 1,
		UpdatedAt: time.Now().UTC(),
	}
	copied := s.prompt
	return &copied, nil
}

func (s *fakePromptStore) SystemPromptHistory(context.Context) ([]model.SystemPrompt, error) {
	return s.history, nil
}

func (s *fakePromptStore) GetConversionInstructions(context.Context) (*model.ConversionInstructions, error) {
	copied := s.instructions
	return &copied, nil
}

func (s *fakePromptStore) SetConversionInstructions(_ context.Context, instructions string, examples []map[string]any) error {
	s.instructions = model.ConversionInstructions{
		Instructions: instructions,
		Examples:     examples,
		UpdatedAt:    time.Now().UTC(),
	}
	return nil
}

func newTestCatalogService() (*CatalogService, *fakeCatalogStore, *fakePromptStore) {
	catalog := &fakeCatalogStore{}
	prompts := &fakePromptStore{
		prompt:       model.SystemPrompt{Prompt: "You are the shop receptionist.", Version: 1},
		instructions: model.ConversionInstructions{Instructions: "Extract order lines."},
	}
	return NewCatalogService(catalog, prompts, logger.NewNop()), catalog, prompts
}

func TestReplaceMenuValidatesNames(t *testing.T) {
	svc, catalog, _ := newTestCatalogService()

	err := svc.ReplaceMenu(context.Background(), []model.MenuItem{{Name: ""}})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, catalog.menu)

	price := 25.0
	err = svc.ReplaceMenu(context.Background(), []model.MenuItem{
		{Name: "Chocolate Cake", Price: &price},
	})
	require.NoError(t, err)

	menu, err := svc.Menu(context.Background())
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "Chocolate Cake", menu[0].Name)
}

func TestReplaceCakeDesignsValidatesIdentity(t *testing.T) {
	svc, _, _ := newTestCatalogService()

	err := svc.ReplaceCakeDesigns(context.Background(), []model.CakeDesign{{Name: "Rose"}})
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.ReplaceCakeDesigns(context.Background(), []model.CakeDesign{
		{DesignID: "d1", Name: "Rose"},
	})
	require.NoError(t, err)
}

func TestUpdateSystemPromptBumpsVersion(t *testing.T) {
	svc, _, _ := newTestCatalogService()

	_, err := svc.UpdateSystemPrompt(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := svc.UpdateSystemPrompt(context.Background(), "Be extra friendly.")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, "Be extra friendly.", updated.Prompt)

	history, err := svc.SystemPromptHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "You are the shop receptionist.", history[0].Prompt)
}

func TestResponderContextIncludesShopConfig(t *testing.T) {
	svc, _, _ := newTestCatalogService()

	price := 30.0
	require.NoError(t, svc.ReplaceMenu(context.Background(), []model.MenuItem{
		{Name: "Matcha Roll", Price: &price},
	}))
	require.NoError(t, svc.ReplaceCakeDesigns(context.Background(), []model.CakeDesign{
		{DesignID: "d1", Name: "Rose", Description: "Buttercream roses"},
	}))

	system, err := svc.ResponderContext(context.Background())
	require.NoError(t, err)

	assert.Contains(t, system, "You are the shop receptionist.")
	assert.Contains(t, system, "Matcha Roll")
	assert.Contains(t, system, "Buttercream roses")
	assert.Contains(t, system, "Extract order lines.")
}
