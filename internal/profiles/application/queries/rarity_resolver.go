package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/profiles/domain"
	trackingDomain "github.com/mfeller/questlog/internal/tracking/domain"
)

// RarityResolver looks up the rarity a profile has assigned to a task.
// It backs the tracking context's rarity defaulting for completions.
type RarityResolver struct {
	profileRepo domain.Repository
}

// NewRarityResolver creates a new RarityResolver.
func NewRarityResolver(profileRepo domain.Repository) *RarityResolver {
	return &RarityResolver{profileRepo: profileRepo}
}

// RarityOverride returns the profile's selected rarity for the task.
// A missing profile or an unselected task reports no override.
func (r *RarityResolver) RarityOverride(ctx context.Context, profileID uuid.UUID, taskID string) (trackingDomain.Rarity, bool, error) {
	profile, err := r.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return "", false, err
	}
	if profile == nil {
		return "", false, nil
	}
	rarity, ok := profile.RarityFor(taskID)
	return rarity, ok, nil
}
