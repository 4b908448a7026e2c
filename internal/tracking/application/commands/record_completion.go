package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/catalog"
	sharedApplication "github.com/mfeller/questlog/internal/shared/application"
	"github.com/mfeller/questlog/internal/shared/infrastructure/outbox"
	"github.com/mfeller/questlog/internal/tracking/application/services"
	"github.com/mfeller/questlog/internal/tracking/domain"
)

var ErrUnknownTask = errors.New("unknown task")

// DayInvalidator drops cached statistics for a user day after the log
// changes. Invalidation failures are logged and swallowed; cached stats
// expire on their own TTL anyway.
type DayInvalidator interface {
	InvalidateDay(ctx context.Context, userID uuid.UUID, day string) error
}

// RarityResolver reports the rarity the user has assigned to a task in
// their profile, if any.
type RarityResolver interface {
	RarityOverride(ctx context.Context, userID uuid.UUID, taskID string) (domain.Rarity, bool, error)
}

// RecordCompletionCommand contains the data needed to log a task completion.
type RecordCompletionCommand struct {
	UserID          uuid.UUID
	TaskID          string
	Rarity          domain.Rarity
	DurationMinutes int
	CompletedAt     time.Time
}

// RecordCompletionResult contains the result of recording a completion.
type RecordCompletionResult struct {
	EntryID      uuid.UUID
	PointsEarned int
	StreakUsed   int
}

// RecordCompletionHandler handles the RecordCompletionCommand.
type RecordCompletionHandler struct {
	logRepo    domain.LogRepository
	tasks      *catalog.Catalog
	streaks    *services.StreakCalculator
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	rarities   RarityResolver
	cache      DayInvalidator
	logger     *slog.Logger
}

// NewRecordCompletionHandler creates a new RecordCompletionHandler.
func NewRecordCompletionHandler(
	logRepo domain.LogRepository,
	tasks *catalog.Catalog,
	streaks *services.StreakCalculator,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *RecordCompletionHandler {
	return &RecordCompletionHandler{
		logRepo:    logRepo,
		tasks:      tasks,
		streaks:    streaks,
		outboxRepo: outboxRepo,
		uow:        uow,
		logger:     slog.Default(),
	}
}

// WithRarityOverrides makes the handler score completions with the rarity
// the user selected in their profile when the command carries none.
func (h *RecordCompletionHandler) WithRarityOverrides(rarities RarityResolver) *RecordCompletionHandler {
	h.rarities = rarities
	return h
}

// WithCacheInvalidation makes the handler drop cached stats for the
// affected day after a successful append.
func (h *RecordCompletionHandler) WithCacheInvalidation(cache DayInvalidator) *RecordCompletionHandler {
	h.cache = cache
	return h
}

// Handle executes the RecordCompletionCommand. The streak bonus uses the
// log state before the new entry is appended: the first completion of an
// otherwise empty day earns no streak bonus, while a second completion on
// the same day does. That asymmetry is deliberate and pinned by tests.
func (h *RecordCompletionHandler) Handle(ctx context.Context, cmd RecordCompletionCommand) (*RecordCompletionResult, error) {
	task, err := h.tasks.Lookup(cmd.TaskID)
	if err != nil {
		return nil, ErrUnknownTask
	}

	// An explicit rarity wins; otherwise the profile's selection, then
	// the catalog default.
	rarity := cmd.Rarity
	if rarity == "" && h.rarities != nil {
		override, ok, err := h.rarities.RarityOverride(ctx, cmd.UserID, cmd.TaskID)
		if err != nil {
			return nil, err
		}
		if ok {
			rarity = override
		}
	}
	if rarity == "" {
		rarity = task.DefaultRarity
	}
	if !rarity.IsValid() {
		return nil, domain.ErrInvalidRarity
	}

	duration := cmd.DurationMinutes
	if !task.SupportsDuration {
		duration = 0
	}

	completedAt := cmd.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	var result *RecordCompletionResult

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		streak, err := h.streaks.Streak(txCtx, cmd.UserID, completedAt)
		if err != nil {
			return err
		}

		entry, err := domain.NewLogEntry(cmd.UserID, cmd.TaskID, completedAt, task.BasePoints, rarity, duration, streak)
		if err != nil {
			return err
		}

		if err := h.logRepo.Append(txCtx, entry); err != nil {
			return err
		}

		events := entry.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(cmd.UserID))

		msgs := make([]*outbox.Message, 0, len(events))
		for _, event := range events {
			msg, err := outbox.NewMessage(event)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := h.outboxRepo.SaveBatch(txCtx, msgs); err != nil {
			return err
		}

		result = &RecordCompletionResult{
			EntryID:      entry.ID(),
			PointsEarned: entry.PointsEarned(),
			StreakUsed:   streak,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Only the completed day is invalidated. A back-dated completion can
	// also change the streak baked into later days' cached stats; those
	// entries stay stale until their TTL expires.
	if h.cache != nil {
		day := completedAt.Local().Format(domain.DayFormat)
		if err := h.cache.InvalidateDay(ctx, cmd.UserID, day); err != nil {
			h.logger.Warn("stats cache invalidation failed", "day", day, "error", err)
		}
	}

	return result, nil
}
