package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/profiles/domain"
)

// GetProfileQuery requests one profile by ID.
type GetProfileQuery struct {
	ProfileID uuid.UUID
}

// GetProfileHandler handles the GetProfileQuery.
type GetProfileHandler struct {
	profileRepo domain.Repository
}

// NewGetProfileHandler creates a new GetProfileHandler.
func NewGetProfileHandler(profileRepo domain.Repository) *GetProfileHandler {
	return &GetProfileHandler{profileRepo: profileRepo}
}

// Handle executes the GetProfileQuery.
func (h *GetProfileHandler) Handle(ctx context.Context, query GetProfileQuery) (*domain.Profile, error) {
	profile, err := h.profileRepo.FindByID(ctx, query.ProfileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

// ListProfilesHandler returns every profile.
type ListProfilesHandler struct {
	profileRepo domain.Repository
}

// NewListProfilesHandler creates a new ListProfilesHandler.
func NewListProfilesHandler(profileRepo domain.Repository) *ListProfilesHandler {
	return &ListProfilesHandler{profileRepo: profileRepo}
}

// Handle lists all profiles ordered by creation time.
func (h *ListProfilesHandler) Handle(ctx context.Context) ([]*domain.Profile, error) {
	return h.profileRepo.FindAll(ctx)
}
