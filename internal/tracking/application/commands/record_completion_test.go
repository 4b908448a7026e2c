package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mfeller/questlog/internal/catalog"
	"github.com/mfeller/questlog/internal/tracking/application/services"
	"github.com/mfeller/questlog/internal/tracking/domain"
)

type handlerFixture struct {
	repo    *mockLogRepo
	outbox  *mockOutboxRepo
	uow     *mockUnitOfWork
	handler *RecordCompletionHandler
}

func newHandlerFixture() *handlerFixture {
	repo := new(mockLogRepo)
	outboxRepo := new(mockOutboxRepo)
	uow := new(mockUnitOfWork)
	return &handlerFixture{
		repo:    repo,
		outbox:  outboxRepo,
		uow:     uow,
		handler: NewRecordCompletionHandler(repo, catalog.Default(), services.NewStreakCalculator(repo), outboxRepo, uow),
	}
}

func (f *handlerFixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.outbox.AssertExpectations(t)
	f.uow.AssertExpectations(t)
}

func TestRecordCompletionHandler_Handle(t *testing.T) {
	userID := uuid.New()
	completedAt := time.Date(2026, 5, 10, 9, 0, 0, 0, time.Local)

	t.Run("records a completion with no prior streak", func(t *testing.T) {
		f := newHandlerFixture()

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("Commit", txCtx).Return(nil)
		f.repo.On("ActiveDays", txCtx, userID).Return([]string{}, nil)
		f.repo.On("Append", txCtx, mock.AnythingOfType("*domain.LogEntry")).Return(nil)
		f.outbox.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := f.handler.Handle(ctx, RecordCompletionCommand{
			UserID:      userID,
			TaskID:      "coding",
			Rarity:      domain.RarityUncommon,
			CompletedAt: completedAt,
		})

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.NotEqual(t, uuid.Nil, result.EntryID)
		assert.Equal(t, 150, result.PointsEarned)
		assert.Equal(t, 0, result.StreakUsed)

		f.assertExpectations(t)
	})

	t.Run("streak counts today once a prior entry exists for today", func(t *testing.T) {
		f := newHandlerFixture()

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		// the first completion today was appended before this one, so the
		// backward scan now sees today as active
		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("Commit", txCtx).Return(nil)
		f.repo.On("ActiveDays", txCtx, userID).Return([]string{"2026-05-10"}, nil)
		f.repo.On("Append", txCtx, mock.AnythingOfType("*domain.LogEntry")).Return(nil)
		f.outbox.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := f.handler.Handle(ctx, RecordCompletionCommand{
			UserID:      userID,
			TaskID:      "coding",
			Rarity:      domain.RarityUncommon,
			CompletedAt: completedAt,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.StreakUsed)
		// 100 * 1.5 * 1.05 = 157.5 -> 158
		assert.Equal(t, 158, result.PointsEarned)

		f.assertExpectations(t)
	})

	t.Run("defaults rarity from the catalog", func(t *testing.T) {
		f := newHandlerFixture()

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("Commit", txCtx).Return(nil)
		f.repo.On("ActiveDays", txCtx, userID).Return([]string{}, nil)
		f.repo.On("Append", txCtx, mock.AnythingOfType("*domain.LogEntry")).Return(nil)
		f.outbox.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := f.handler.Handle(ctx, RecordCompletionCommand{
			UserID:      userID,
			TaskID:      "deep-work",
			CompletedAt: completedAt,
		})

		require.NoError(t, err)
		// deep-work defaults to legendary: 150 * 3.0 = 450
		assert.Equal(t, 450, result.PointsEarned)

		f.assertExpectations(t)
	})

	t.Run("scores with the profile's selected rarity when none is given", func(t *testing.T) {
		f := newHandlerFixture()
		rarities := new(mockRarityResolver)
		f.handler = f.handler.WithRarityOverrides(rarities)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		rarities.On("RarityOverride", ctx, userID, "coding").Return(domain.RarityRare, true, nil)
		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("Commit", txCtx).Return(nil)
		f.repo.On("ActiveDays", txCtx, userID).Return([]string{}, nil)
		f.repo.On("Append", txCtx, mock.AnythingOfType("*domain.LogEntry")).Return(nil)
		f.outbox.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := f.handler.Handle(ctx, RecordCompletionCommand{
			UserID:      userID,
			TaskID:      "coding",
			CompletedAt: completedAt,
		})

		require.NoError(t, err)
		// 100 * 2.0, not the catalog's uncommon default
		assert.Equal(t, 200, result.PointsEarned)

		rarities.AssertExpectations(t)
		f.assertExpectations(t)
	})

	t.Run("explicit rarity wins over the profile selection", func(t *testing.T) {
		f := newHandlerFixture()
		rarities := new(mockRarityResolver)
		f.handler = f.handler.WithRarityOverrides(rarities)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("Commit", txCtx).Return(nil)
		f.repo.On("ActiveDays", txCtx, userID).Return([]string{}, nil)
		f.repo.On("Append", txCtx, mock.AnythingOfType("*domain.LogEntry")).Return(nil)
		f.outbox.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := f.handler.Handle(ctx, RecordCompletionCommand{
			UserID:      userID,
			TaskID:      "coding",
			Rarity:      domain.RarityLegendary,
			CompletedAt: completedAt,
		})

		require.NoError(t, err)
		assert.Equal(t, 300, result.PointsEarned)

		// the resolver is never consulted
		rarities.AssertExpectations(t)
		f.assertExpectations(t)
	})

	t.Run("falls back to the catalog default without a profile selection", func(t *testing.T) {
		f := newHandlerFixture()
		rarities := new(mockRarityResolver)
		f.handler = f.handler.WithRarityOverrides(rarities)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		rarities.On("RarityOverride", ctx, userID, "deep-work").Return(domain.Rarity(""), false, nil)
		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("Commit", txCtx).Return(nil)
		f.repo.On("ActiveDays", txCtx, userID).Return([]string{}, nil)
		f.repo.On("Append", txCtx, mock.AnythingOfType("*domain.LogEntry")).Return(nil)
		f.outbox.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := f.handler.Handle(ctx, RecordCompletionCommand{
			UserID:      userID,
			TaskID:      "deep-work",
			CompletedAt: completedAt,
		})

		require.NoError(t, err)
		assert.Equal(t, 450, result.PointsEarned)

		rarities.AssertExpectations(t)
		f.assertExpectations(t)
	})

	t.Run("propagates profile lookup failures", func(t *testing.T) {
		f := newHandlerFixture()
		rarities := new(mockRarityResolver)
		f.handler = f.handler.WithRarityOverrides(rarities)

		ctx := context.Background()
		lookupErr := errors.New("profile store down")
		rarities.On("RarityOverride", ctx, userID, "coding").Return(domain.Rarity(""), false, lookupErr)

		_, err := f.handler.Handle(ctx, RecordCompletionCommand{
			UserID:      userID,
			TaskID:      "coding",
			CompletedAt: completedAt,
		})

		assert.ErrorIs(t, err, lookupErr)
		rarities.AssertExpectations(t)
	})

	t.Run("ignores duration for tasks without duration tracking", func(t *testing.T) {
		f := newHandlerFixture()

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("Commit", txCtx).Return(nil)
		f.repo.On("ActiveDays", txCtx, userID).Return([]string{}, nil)
		f.repo.On("Append", txCtx, mock.AnythingOfType("*domain.LogEntry")).Return(nil)
		f.outbox.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := f.handler.Handle(ctx, RecordCompletionCommand{
			UserID:          userID,
			TaskID:          "journaling",
			Rarity:          domain.RarityCommon,
			DurationMinutes: 60,
			CompletedAt:     completedAt,
		})

		require.NoError(t, err)
		assert.Equal(t, 60, result.PointsEarned)

		f.assertExpectations(t)
	})

	t.Run("rejects unknown task", func(t *testing.T) {
		f := newHandlerFixture()

		_, err := f.handler.Handle(context.Background(), RecordCompletionCommand{
			UserID: userID,
			TaskID: "no-such-task",
		})

		assert.ErrorIs(t, err, ErrUnknownTask)
	})

	t.Run("rejects invalid rarity", func(t *testing.T) {
		f := newHandlerFixture()

		_, err := f.handler.Handle(context.Background(), RecordCompletionCommand{
			UserID: userID,
			TaskID: "coding",
			Rarity: domain.Rarity("mythic"),
		})

		assert.ErrorIs(t, err, domain.ErrInvalidRarity)
	})

	t.Run("rolls back when append fails", func(t *testing.T) {
		f := newHandlerFixture()

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("Rollback", txCtx).Return(nil)
		f.repo.On("ActiveDays", txCtx, userID).Return([]string{}, nil)
		f.repo.On("Append", txCtx, mock.AnythingOfType("*domain.LogEntry")).Return(errors.New("storage failure"))

		_, err := f.handler.Handle(ctx, RecordCompletionCommand{
			UserID:      userID,
			TaskID:      "coding",
			Rarity:      domain.RarityCommon,
			CompletedAt: completedAt,
		})

		assert.Error(t, err)
		f.assertExpectations(t)
	})
}
