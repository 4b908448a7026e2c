package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/tracking/application/services"
	"github.com/mfeller/questlog/internal/tracking/domain"
)

// Summary is an all-time rollup of a user's completion log.
type Summary struct {
	TotalPoints    int
	TasksCompleted int
	ActiveDays     int
	FirstActiveDay string
	CurrentStreak  int
}

// GetSummaryQuery requests the all-time summary for a user. Date anchors
// the current-streak scan, normally today.
type GetSummaryQuery struct {
	UserID uuid.UUID
	Date   time.Time
}

// GetSummaryHandler handles the GetSummaryQuery.
type GetSummaryHandler struct {
	logRepo domain.LogRepository
	streaks *services.StreakCalculator
}

// NewGetSummaryHandler creates a new GetSummaryHandler.
func NewGetSummaryHandler(logRepo domain.LogRepository, streaks *services.StreakCalculator) *GetSummaryHandler {
	return &GetSummaryHandler{logRepo: logRepo, streaks: streaks}
}

// Handle executes the GetSummaryQuery.
func (h *GetSummaryHandler) Handle(ctx context.Context, query GetSummaryQuery) (*Summary, error) {
	entries, err := h.logRepo.FindByUser(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{TasksCompleted: len(entries)}

	days := make(map[string]struct{})
	for _, entry := range entries {
		summary.TotalPoints += entry.PointsEarned()
		days[entry.Day()] = struct{}{}
		if summary.FirstActiveDay == "" || entry.Day() < summary.FirstActiveDay {
			summary.FirstActiveDay = entry.Day()
		}
	}
	summary.ActiveDays = len(days)

	streak, err := h.streaks.Streak(ctx, query.UserID, query.Date)
	if err != nil {
		return nil, err
	}
	summary.CurrentStreak = streak

	return summary, nil
}
