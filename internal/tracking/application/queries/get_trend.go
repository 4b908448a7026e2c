package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/tracking/application/services"
)

// Trend window sizes offered by the application.
const (
	WeeklyWindowDays  = 7
	MonthlyWindowDays = 30
)

// GetTrendQuery requests daily stats over a trailing window ending at EndDate.
type GetTrendQuery struct {
	UserID     uuid.UUID
	EndDate    time.Time
	WindowDays int
}

// GetTrendHandler handles the GetTrendQuery.
type GetTrendHandler struct {
	stats *services.StatsCalculator
}

// NewGetTrendHandler creates a new GetTrendHandler.
func NewGetTrendHandler(stats *services.StatsCalculator) *GetTrendHandler {
	return &GetTrendHandler{stats: stats}
}

// Handle executes the GetTrendQuery. Results are ordered oldest first.
func (h *GetTrendHandler) Handle(ctx context.Context, query GetTrendQuery) ([]services.DailyStats, error) {
	window := query.WindowDays
	if window == 0 {
		window = WeeklyWindowDays
	}
	return h.stats.Trend(ctx, query.UserID, query.EndDate, window)
}
