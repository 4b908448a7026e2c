package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mfeller/questlog/internal/profiles/domain"
	trackingDomain "github.com/mfeller/questlog/internal/tracking/domain"
)

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) Save(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockProfileRepo) FindAll(ctx context.Context) ([]*domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Profile), args.Error(1)
}

func (m *mockProfileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestRarityResolver_RarityOverride(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the selected rarity", func(t *testing.T) {
		profile, err := domain.NewProfile("Tester")
		require.NoError(t, err)
		require.NoError(t, profile.SelectTask("coding", trackingDomain.RarityRare))

		repo := new(mockProfileRepo)
		repo.On("FindByID", ctx, profile.ID()).Return(profile, nil)

		rarity, ok, err := NewRarityResolver(repo).RarityOverride(ctx, profile.ID(), "coding")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, trackingDomain.RarityRare, rarity)
	})

	t.Run("reports no override for an unselected task", func(t *testing.T) {
		profile, err := domain.NewProfile("Tester")
		require.NoError(t, err)

		repo := new(mockProfileRepo)
		repo.On("FindByID", ctx, profile.ID()).Return(profile, nil)

		_, ok, err := NewRarityResolver(repo).RarityOverride(ctx, profile.ID(), "coding")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("reports no override for a missing profile", func(t *testing.T) {
		id := uuid.New()
		repo := new(mockProfileRepo)
		repo.On("FindByID", ctx, id).Return(nil, nil)

		_, ok, err := NewRarityResolver(repo).RarityOverride(ctx, id, "coding")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("propagates storage errors", func(t *testing.T) {
		id := uuid.New()
		storeErr := errors.New("storage failure")
		repo := new(mockProfileRepo)
		repo.On("FindByID", ctx, id).Return(nil, storeErr)

		_, _, err := NewRarityResolver(repo).RarityOverride(ctx, id, "coding")

		assert.ErrorIs(t, err, storeErr)
	})
}
