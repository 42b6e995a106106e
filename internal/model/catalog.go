package model

import (
	"time"
)

// MenuItem is one entry on the shop menu.
type MenuItem struct {
	ID          string    `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Price       *float64  `bson:"price,omitempty" json:"price,omitempty"`
	Category    string    `bson:"category,omitempty" json:"category,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// CakeDesign is a personalized cake design the shop offers.
type CakeDesign struct {
	ID          string    `bson:"_id,omitempty" json:"id,omitempty"`
	DesignID    string    `bson:"design_id" json:"design_id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	ImageURL    string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	ImageData   []byte    `bson:"image_data,omitempty" json:"-"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// SystemPrompt is the configurable instruction block for the AI responder.
type SystemPrompt struct {
	Prompt    string    `bson:"prompt" json:"prompt"`
	Version   int       `bson:"version" json:"version"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ConversionInstructions configure the screenshot-to-order conversion flow.
type ConversionInstructions struct {
	Instructions string           `bson:"instructions" json:"instructions"`
	Examples     []map[string]any `bson:"examples,omitempty" json:"examples,omitempty"`
	UpdatedAt    time.Time        `bson:"updated_at" json:"updated_at"`
}

// UpdateMenuRequest replaces the full menu.
type UpdateMenuRequest struct {
	Items []MenuItem `json:"items"`
}

// UpdateCakeDesignsRequest replaces the full set of cake designs.
type UpdateCakeDesignsRequest struct {
	Designs []CakeDesign `json:"designs"`
}

// UpdateSystemPromptRequest sets a new system prompt.
type UpdateSystemPromptRequest struct {
	Prompt string `json:"prompt"`
}

// UpdateConversionInstructionsRequest sets new conversion instructions.
type UpdateConversionInstructionsRequest struct {
	Instructions string           `json:"instructions"`
	Examples     []map[string]any `json:"examples,omitempty"`
}

// UploadedImage stores an uploaded order screenshot or design photo.
type UploadedImage struct {
	ID          string    `bson:"_id" json:"id"`
	Filename    string    `bson:"filename" json:"filename"`
	ContentType string    `bson:"content_type" json:"content_type"`
	Size        int64     `bson:"size" json:"size"`
	Data        []byte    `bson:"data" json:"-"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
