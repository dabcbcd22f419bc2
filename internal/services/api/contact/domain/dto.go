// Package domain holds DTOs and ports for the contact form
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ContactInput is the public contact form
type ContactInput struct {
	Name    string `json:"name"              validate:"required,min=1,max=200"    example:"Ada Lovelace"`
	Email   string `json:"email"             validate:"required,email,max=320"    example:"ada@example.com"`
	Company string `json:"company,omitempty" validate:"omitempty,max=200"         example:"Analytical Engines"`
	Message string `json:"message"           validate:"required,min=10,max=5000"  example:"We would like to talk about the partner tier."`
}

// ContactCreated is returned once the lead is stored
type ContactCreated struct {
	ID uuid.UUID `json:"id" example:"0b5f6c1e-2f43-4c1e-9a59-7d1c2d3e4f50"`
}

// Lead is the stored form submission
type Lead struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Company   string
	Message   string
	SubjectID string
	CreatedAt time.Time
}

// LeadOutput is a stored lead as shown to staff
type LeadOutput struct {
	ID        uuid.UUID `json:"id"                   example:"0b5f6c1e-2f43-4c1e-9a59-7d1c2d3e4f50"`
	Name      string    `json:"name"                 example:"Ada Lovelace"`
	Email     string    `json:"email"                example:"ada@example.com"`
	Company   string    `json:"company,omitempty"    example:"Analytical Engines"`
	Message   string    `json:"message"              example:"We would like to talk about the partner tier."`
	SubjectID string    `json:"subject_id,omitempty" example:"3f1e9a2c-0000-4000-8000-000000000001"`
	CreatedAt time.Time `json:"created_at"           example:"2026-03-01T11:00:00Z"`
}

// LeadDeleted acknowledges a removal
type LeadDeleted struct {
	ID uuid.UUID `json:"id" example:"0b5f6c1e-2f43-4c1e-9a59-7d1c2d3e4f50"`
}

// ServicePort is the contact workflow
type ServicePort interface {
	Submit(ctx context.Context, in ContactInput) (ContactCreated, error)
	// List returns the newest leads first; limit is clamped to [1, MaxListLimit]
	List(ctx context.Context, limit int) ([]LeadOutput, error)
	Delete(ctx context.Context, id uuid.UUID) (LeadDeleted, error)
}

// Listing bounds
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Repo persists leads
type Repo interface {
	Insert(ctx context.Context, l Lead) error
	List(ctx context.Context, limit int) ([]Lead, error)
	// Delete reports false when no lead had id
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
