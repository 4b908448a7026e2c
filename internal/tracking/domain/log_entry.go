package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/shared/domain"
)

// DayFormat is the layout for local calendar days. The lexicographic
// order of formatted days matches their chronological order, so day
// strings are safe to compare and range over directly.
const DayFormat = "2006-01-02"

var (
	ErrInvalidUserID = errors.New("user ID is required")
	ErrInvalidTaskID = errors.New("task ID is required")
	ErrLogNotFound   = errors.New("log entry not found")
)

// LogEntry records a single task completion. Points are computed once at
// creation from the state at that moment and never recomputed, so later
// rarity or streak changes do not rewrite history.
type LogEntry struct {
	domain.BaseAggregateRoot
	userID          uuid.UUID
	taskID          string
	completedAt     time.Time
	completedOn     string
	durationMinutes int
	rarity          Rarity
	pointsEarned    int
}

// NewLogEntry records a completion, computing and freezing the points
// earned. streakDays is the user's streak as observed before this entry
// is persisted. Negative durations are normalized to zero.
func NewLogEntry(userID uuid.UUID, taskID string, completedAt time.Time, basePoints int, rarity Rarity, durationMinutes int, streakDays int) (*LogEntry, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if taskID == "" {
		return nil, ErrInvalidTaskID
	}
	if durationMinutes < 0 {
		durationMinutes = 0
	}

	points, err := Score(basePoints, rarity, durationMinutes, streakDays)
	if err != nil {
		return nil, err
	}

	entry := &LogEntry{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		userID:            userID,
		taskID:            taskID,
		completedAt:       completedAt,
		completedOn:       completedAt.Local().Format(DayFormat),
		durationMinutes:   durationMinutes,
		rarity:            rarity,
		pointsEarned:      points,
	}

	entry.AddDomainEvent(NewCompletionRecorded(entry))

	return entry, nil
}

// RehydrateLogEntry reconstructs an entry from persistence without
// raising events or recomputing points.
func RehydrateLogEntry(
	id uuid.UUID,
	userID uuid.UUID,
	taskID string,
	completedAt time.Time,
	completedOn string,
	durationMinutes int,
	rarity Rarity,
	pointsEarned int,
	createdAt time.Time,
) *LogEntry {
	return &LogEntry{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(
			domain.RehydrateBaseEntity(id, createdAt, createdAt),
		),
		userID:          userID,
		taskID:          taskID,
		completedAt:     completedAt,
		completedOn:     completedOn,
		durationMinutes: durationMinutes,
		rarity:          rarity,
		pointsEarned:    pointsEarned,
	}
}

func (l *LogEntry) UserID() uuid.UUID    { return l.userID }
func (l *LogEntry) TaskID() string       { return l.taskID }
func (l *LogEntry) CompletedAt() time.Time { return l.completedAt }
func (l *LogEntry) DurationMinutes() int { return l.durationMinutes }
func (l *LogEntry) Rarity() Rarity       { return l.rarity }
func (l *LogEntry) PointsEarned() int    { return l.pointsEarned }

// Day returns the local calendar day the completion belongs to.
func (l *LogEntry) Day() string { return l.completedOn }
