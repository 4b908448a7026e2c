package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/shared/domain"
)

const aggregateType = "LogEntry"

// CompletionRecorded is raised when a task completion is logged.
type CompletionRecorded struct {
	domain.BaseEvent
	UserID          uuid.UUID `json:"user_id"`
	TaskID          string    `json:"task_id"`
	CompletedAt     time.Time `json:"completed_at"`
	CompletedOn     string    `json:"completed_on"`
	DurationMinutes int       `json:"duration_minutes"`
	Rarity          string    `json:"rarity"`
	PointsEarned    int       `json:"points_earned"`
}

func NewCompletionRecorded(entry *LogEntry) *CompletionRecorded {
	return &CompletionRecorded{
		BaseEvent:       domain.NewBaseEvent(entry.ID(), aggregateType, "tracking.completion.recorded"),
		UserID:          entry.UserID(),
		TaskID:          entry.TaskID(),
		CompletedAt:     entry.CompletedAt(),
		CompletedOn:     entry.Day(),
		DurationMinutes: entry.DurationMinutes(),
		Rarity:          entry.Rarity().String(),
		PointsEarned:    entry.PointsEarned(),
	}
}
