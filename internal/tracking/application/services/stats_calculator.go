package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/tracking/domain"
)

// TaskResolver answers category lookups for logged task identifiers.
// An identifier that no longer resolves is not an error; the entry is
// simply excluded from category-aware views.
type TaskResolver interface {
	Category(taskID string) (string, bool)
}

// DailyStats is the derived view of one user day. Nothing here is
// persisted; every call recomputes from the log store.
type DailyStats struct {
	Date              string
	TotalPoints       int
	ProductivityScore int
	TasksCompleted    int
	CategoriesActive  int
	Streak            int
}

// CategoryPoints is one slice of a day's category breakdown.
type CategoryPoints struct {
	Category string
	Points   int
}

// StatsCalculator derives daily statistics, trends, and category
// breakdowns from the append-only completion log.
type StatsCalculator struct {
	logRepo  domain.LogRepository
	resolver TaskResolver
	streaks  *StreakCalculator
}

// NewStatsCalculator creates a stats calculator.
func NewStatsCalculator(logRepo domain.LogRepository, resolver TaskResolver, streaks *StreakCalculator) *StatsCalculator {
	return &StatsCalculator{
		logRepo:  logRepo,
		resolver: resolver,
		streaks:  streaks,
	}
}

// DailyStats computes the full stats view for one local calendar day.
func (c *StatsCalculator) DailyStats(ctx context.Context, userID uuid.UUID, date time.Time) (DailyStats, error) {
	day := date.Local().Format(domain.DayFormat)

	entries, err := c.logRepo.FindByUserAndDayRange(ctx, userID, day, day)
	if err != nil {
		return DailyStats{}, fmt.Errorf("loading completions for %s: %w", day, err)
	}

	totalPoints := 0
	categories := make(map[string]struct{})
	for _, entry := range entries {
		totalPoints += entry.PointsEarned()
		if category, ok := c.resolver.Category(entry.TaskID()); ok {
			categories[category] = struct{}{}
		}
	}

	streak, err := c.streaks.Streak(ctx, userID, date)
	if err != nil {
		return DailyStats{}, err
	}

	return DailyStats{
		Date:              day,
		TotalPoints:       totalPoints,
		ProductivityScore: domain.ProductivityScore(totalPoints),
		TasksCompleted:    len(entries),
		CategoriesActive:  len(categories),
		Streak:            streak,
	}, nil
}

// Trend returns one DailyStats per day over the window ending at endDate,
// oldest first. Each day is computed independently.
func (c *StatsCalculator) Trend(ctx context.Context, userID uuid.UUID, endDate time.Time, windowDays int) ([]DailyStats, error) {
	if windowDays < 1 {
		return nil, fmt.Errorf("trend window must be at least one day, got %d", windowDays)
	}

	stats := make([]DailyStats, 0, windowDays)
	start := endDate.Local().AddDate(0, 0, -(windowDays - 1))
	for i := 0; i < windowDays; i++ {
		day, err := c.DailyStats(ctx, userID, start.AddDate(0, 0, i))
		if err != nil {
			return nil, err
		}
		stats = append(stats, day)
	}
	return stats, nil
}

// CategoryBreakdown sums one day's points per category. Entries whose
// task identifier no longer resolves in the catalog are left out, so the
// breakdown total can be less than the day's TotalPoints.
func (c *StatsCalculator) CategoryBreakdown(ctx context.Context, userID uuid.UUID, date time.Time) ([]CategoryPoints, error) {
	day := date.Local().Format(domain.DayFormat)

	entries, err := c.logRepo.FindByUserAndDayRange(ctx, userID, day, day)
	if err != nil {
		return nil, fmt.Errorf("loading completions for %s: %w", day, err)
	}

	points := make(map[string]int)
	order := make([]string, 0)
	for _, entry := range entries {
		category, ok := c.resolver.Category(entry.TaskID())
		if !ok {
			continue
		}
		if _, seen := points[category]; !seen {
			order = append(order, category)
		}
		points[category] += entry.PointsEarned()
	}

	breakdown := make([]CategoryPoints, 0, len(order))
	for _, category := range order {
		breakdown = append(breakdown, CategoryPoints{Category: category, Points: points[category]})
	}
	return breakdown, nil
}
