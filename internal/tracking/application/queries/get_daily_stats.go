package queries

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/tracking/application/services"
	"github.com/mfeller/questlog/internal/tracking/domain"
)

// StatsCache holds computed daily stats per user and day. A nil result
// with a nil error is a miss. Cache failures must never fail a query;
// handlers fall back to recomputing.
type StatsCache interface {
	GetDailyStats(ctx context.Context, userID uuid.UUID, day string) (*services.DailyStats, error)
	SetDailyStats(ctx context.Context, userID uuid.UUID, stats services.DailyStats) error
	InvalidateDay(ctx context.Context, userID uuid.UUID, day string) error
}

// GetDailyStatsQuery requests the stats view for one day.
type GetDailyStatsQuery struct {
	UserID uuid.UUID
	Date   time.Time
}

// GetDailyStatsHandler handles the GetDailyStatsQuery.
type GetDailyStatsHandler struct {
	stats  *services.StatsCalculator
	cache  StatsCache
	logger *slog.Logger
}

// NewGetDailyStatsHandler creates a new GetDailyStatsHandler. The cache
// may be nil, in which case every call recomputes.
func NewGetDailyStatsHandler(stats *services.StatsCalculator, cache StatsCache, logger *slog.Logger) *GetDailyStatsHandler {
	return &GetDailyStatsHandler{
		stats:  stats,
		cache:  cache,
		logger: logger,
	}
}

// Handle executes the GetDailyStatsQuery.
func (h *GetDailyStatsHandler) Handle(ctx context.Context, query GetDailyStatsQuery) (services.DailyStats, error) {
	day := query.Date.Local().Format(domain.DayFormat)

	if h.cache != nil {
		cached, err := h.cache.GetDailyStats(ctx, query.UserID, day)
		if err != nil {
			h.logger.Warn("stats cache read failed, recomputing", "day", day, "error", err)
		} else if cached != nil {
			return *cached, nil
		}
	}

	stats, err := h.stats.DailyStats(ctx, query.UserID, query.Date)
	if err != nil {
		return services.DailyStats{}, err
	}

	if h.cache != nil {
		if err := h.cache.SetDailyStats(ctx, query.UserID, stats); err != nil {
			h.logger.Warn("stats cache write failed", "day", day, "error", err)
		}
	}

	return stats, nil
}
