package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists profiles and their task selections.
type Repository interface {
	// Save stores a profile and its full selection set.
	Save(ctx context.Context, profile *Profile) error

	// FindByID returns a profile, or nil when none exists.
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)

	// FindAll returns every profile ordered by creation time.
	FindAll(ctx context.Context) ([]*Profile, error)

	// Delete removes a profile and its selections. Log entries made
	// under the profile remain.
	Delete(ctx context.Context, id uuid.UUID) error
}
