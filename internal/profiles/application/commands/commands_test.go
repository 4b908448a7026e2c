package commands

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mfeller/questlog/internal/catalog"
	"github.com/mfeller/questlog/internal/profiles/domain"
	"github.com/mfeller/questlog/internal/shared/infrastructure/outbox"
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

type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	args := m.Called(ctx, id, errMsg, nextRetryAt)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockOutboxRepo) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestCreateProfileHandler_Handle(t *testing.T) {
	t.Run("creates a profile", func(t *testing.T) {
		repo := new(mockProfileRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewCreateProfileHandler(repo, outboxRepo, uow)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("Save", txCtx, mock.AnythingOfType("*domain.Profile")).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		id, err := handler.Handle(ctx, CreateProfileCommand{Name: "Daily Grind"})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)

		repo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("rejects empty name without touching storage", func(t *testing.T) {
		repo := new(mockProfileRepo)
		handler := NewCreateProfileHandler(repo, new(mockOutboxRepo), new(mockUnitOfWork))

		_, err := handler.Handle(context.Background(), CreateProfileCommand{Name: "  "})

		assert.ErrorIs(t, err, domain.ErrProfileEmptyName)
		repo.AssertNotCalled(t, "Save")
	})
}

func TestManageTasksHandler(t *testing.T) {
	profileID := uuid.New()

	newFixture := func() (*mockProfileRepo, *mockOutboxRepo, *mockUnitOfWork, *ManageTasksHandler) {
		repo := new(mockProfileRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewManageTasksHandler(repo, catalog.Default(), outboxRepo, uow)
		return repo, outboxRepo, uow, handler
	}

	t.Run("selects a task with catalog default rarity", func(t *testing.T) {
		repo, outboxRepo, uow, handler := newFixture()

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		profile, err := domain.NewProfile("Test")
		require.NoError(t, err)
		profile.ClearDomainEvents()

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, profileID).Return(profile, nil)
		repo.On("Save", txCtx, profile).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		err = handler.HandleSelect(ctx, SelectTaskCommand{ProfileID: profileID, TaskID: "deep-work"})

		require.NoError(t, err)
		rarity, ok := profile.RarityFor("deep-work")
		require.True(t, ok)
		assert.Equal(t, trackingDomain.RarityLegendary, rarity)

		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("rejects tasks missing from the catalog", func(t *testing.T) {
		repo, _, _, handler := newFixture()

		err := handler.HandleSelect(context.Background(), SelectTaskCommand{ProfileID: profileID, TaskID: "no-such-task"})

		assert.ErrorIs(t, err, catalog.ErrTaskNotFound)
		repo.AssertNotCalled(t, "FindByID")
	})

	t.Run("reports missing profile", func(t *testing.T) {
		repo, _, uow, handler := newFixture()

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, profileID).Return(nil, nil)

		err := handler.HandleDeselect(ctx, DeselectTaskCommand{ProfileID: profileID, TaskID: "coding"})

		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
		uow.AssertExpectations(t)
	})

	t.Run("changes rarity on a selected task", func(t *testing.T) {
		repo, outboxRepo, uow, handler := newFixture()

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		profile, err := domain.NewProfile("Test")
		require.NoError(t, err)
		require.NoError(t, profile.SelectTask("coding", trackingDomain.RarityCommon))
		profile.ClearDomainEvents()

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, profileID).Return(profile, nil)
		repo.On("Save", txCtx, profile).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		err = handler.HandleSetRarity(ctx, SetRarityCommand{ProfileID: profileID, TaskID: "coding", Rarity: trackingDomain.RarityRare})

		require.NoError(t, err)
		rarity, _ := profile.RarityFor("coding")
		assert.Equal(t, trackingDomain.RarityRare, rarity)
	})
}
