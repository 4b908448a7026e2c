package queries

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfeller/questlog/internal/tracking/application/services"
	"github.com/mfeller/questlog/internal/tracking/domain"
)

type fakeLogRepo struct {
	entries []*domain.LogEntry
}

func (f *fakeLogRepo) Append(_ context.Context, entry *domain.LogEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeLogRepo) FindByUserAndDayRange(_ context.Context, userID uuid.UUID, fromDay, toDay string) ([]*domain.LogEntry, error) {
	var result []*domain.LogEntry
	for _, e := range f.entries {
		if e.UserID() == userID && e.Day() >= fromDay && e.Day() <= toDay {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeLogRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*domain.LogEntry, error) {
	var result []*domain.LogEntry
	for _, e := range f.entries {
		if e.UserID() == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeLogRepo) ActiveDays(_ context.Context, userID uuid.UUID) ([]string, error) {
	seen := make(map[string]struct{})
	for _, e := range f.entries {
		if e.UserID() == userID {
			seen[e.Day()] = struct{}{}
		}
	}
	days := make([]string, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Strings(days)
	return days, nil
}

type fakeResolver struct{}

func (fakeResolver) Category(taskID string) (string, bool) {
	switch taskID {
	case "coding", "reading":
		return "Learning", true
	case "exercise":
		return "Fitness", true
	default:
		return "", false
	}
}

type fakeCache struct {
	stats    map[string]services.DailyStats
	getErr   error
	setCalls int
	getCalls int
	inval    []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{stats: make(map[string]services.DailyStats)}
}

func (c *fakeCache) GetDailyStats(_ context.Context, userID uuid.UUID, day string) (*services.DailyStats, error) {
	c.getCalls++
	if c.getErr != nil {
		return nil, c.getErr
	}
	if s, ok := c.stats[userID.String()+":"+day]; ok {
		return &s, nil
	}
	return nil, nil
}

func (c *fakeCache) SetDailyStats(_ context.Context, userID uuid.UUID, stats services.DailyStats) error {
	c.setCalls++
	c.stats[userID.String()+":"+stats.Date] = stats
	return nil
}

func (c *fakeCache) InvalidateDay(_ context.Context, userID uuid.UUID, day string) error {
	c.inval = append(c.inval, day)
	delete(c.stats, userID.String()+":"+day)
	return nil
}

func newCalculator(repo *fakeLogRepo) *services.StatsCalculator {
	return services.NewStatsCalculator(repo, fakeResolver{}, services.NewStreakCalculator(repo))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedEntry(t *testing.T, repo *fakeLogRepo, userID uuid.UUID, taskID string, at time.Time, base int) {
	t.Helper()
	entry, err := domain.NewLogEntry(userID, taskID, at, base, domain.RarityCommon, 0, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Append(context.Background(), entry))
}

func TestGetDailyStatsHandler(t *testing.T) {
	userID := uuid.New()
	day := time.Date(2026, 5, 10, 14, 0, 0, 0, time.Local)

	t.Run("computes and caches", func(t *testing.T) {
		repo := &fakeLogRepo{}
		seedEntry(t, repo, userID, "coding", day, 100)

		cache := newFakeCache()
		handler := NewGetDailyStatsHandler(newCalculator(repo), cache, discardLogger())

		stats, err := handler.Handle(context.Background(), GetDailyStatsQuery{UserID: userID, Date: day})

		require.NoError(t, err)
		assert.Equal(t, 100, stats.TotalPoints)
		assert.Equal(t, 1, cache.setCalls)

		// second call is served from cache
		again, err := handler.Handle(context.Background(), GetDailyStatsQuery{UserID: userID, Date: day})
		require.NoError(t, err)
		assert.Equal(t, stats, again)
		assert.Equal(t, 1, cache.setCalls)
	})

	t.Run("cache failure degrades to recompute", func(t *testing.T) {
		repo := &fakeLogRepo{}
		seedEntry(t, repo, userID, "coding", day, 100)

		cache := newFakeCache()
		cache.getErr = errors.New("connection refused")
		handler := NewGetDailyStatsHandler(newCalculator(repo), cache, discardLogger())

		stats, err := handler.Handle(context.Background(), GetDailyStatsQuery{UserID: userID, Date: day})

		require.NoError(t, err)
		assert.Equal(t, 100, stats.TotalPoints)
	})

	t.Run("works without a cache", func(t *testing.T) {
		repo := &fakeLogRepo{}
		seedEntry(t, repo, userID, "coding", day, 100)

		handler := NewGetDailyStatsHandler(newCalculator(repo), nil, discardLogger())

		stats, err := handler.Handle(context.Background(), GetDailyStatsQuery{UserID: userID, Date: day})

		require.NoError(t, err)
		assert.Equal(t, 100, stats.TotalPoints)
	})
}

func TestGetTrendHandler(t *testing.T) {
	userID := uuid.New()
	end := time.Date(2026, 5, 10, 14, 0, 0, 0, time.Local)

	repo := &fakeLogRepo{}
	seedEntry(t, repo, userID, "coding", end, 100)
	seedEntry(t, repo, userID, "exercise", end.AddDate(0, 0, -29), 120)
	// outside the monthly window
	seedEntry(t, repo, userID, "reading", end.AddDate(0, 0, -30), 80)

	handler := NewGetTrendHandler(newCalculator(repo))

	t.Run("monthly window", func(t *testing.T) {
		trend, err := handler.Handle(context.Background(), GetTrendQuery{UserID: userID, EndDate: end, WindowDays: MonthlyWindowDays})

		require.NoError(t, err)
		require.Len(t, trend, 30)
		assert.Equal(t, 120, trend[0].TotalPoints)
		assert.Equal(t, 100, trend[29].TotalPoints)
	})

	t.Run("defaults to weekly window", func(t *testing.T) {
		trend, err := handler.Handle(context.Background(), GetTrendQuery{UserID: userID, EndDate: end})

		require.NoError(t, err)
		assert.Len(t, trend, WeeklyWindowDays)
	})
}

func TestGetSummaryHandler(t *testing.T) {
	userID := uuid.New()
	today := time.Date(2026, 5, 10, 14, 0, 0, 0, time.Local)

	t.Run("rolls up the whole log", func(t *testing.T) {
		repo := &fakeLogRepo{}
		seedEntry(t, repo, userID, "coding", today, 100)
		seedEntry(t, repo, userID, "reading", today, 80)
		seedEntry(t, repo, userID, "exercise", today.AddDate(0, 0, -1), 120)
		// another user's activity stays out of the rollup
		seedEntry(t, repo, uuid.New(), "coding", today, 500)

		handler := NewGetSummaryHandler(repo, services.NewStreakCalculator(repo))

		summary, err := handler.Handle(context.Background(), GetSummaryQuery{UserID: userID, Date: today})

		require.NoError(t, err)
		assert.Equal(t, 300, summary.TotalPoints)
		assert.Equal(t, 3, summary.TasksCompleted)
		assert.Equal(t, 2, summary.ActiveDays)
		assert.Equal(t, today.AddDate(0, 0, -1).Format(domain.DayFormat), summary.FirstActiveDay)
		assert.Equal(t, 2, summary.CurrentStreak)
	})

	t.Run("empty log", func(t *testing.T) {
		handler := NewGetSummaryHandler(&fakeLogRepo{}, services.NewStreakCalculator(&fakeLogRepo{}))

		summary, err := handler.Handle(context.Background(), GetSummaryQuery{UserID: userID, Date: today})

		require.NoError(t, err)
		assert.Zero(t, summary.TotalPoints)
		assert.Zero(t, summary.TasksCompleted)
		assert.Zero(t, summary.ActiveDays)
		assert.Empty(t, summary.FirstActiveDay)
		assert.Zero(t, summary.CurrentStreak)
	})
}

func TestGetCategoryBreakdownHandler(t *testing.T) {
	userID := uuid.New()
	day := time.Date(2026, 5, 10, 14, 0, 0, 0, time.Local)

	repo := &fakeLogRepo{}
	seedEntry(t, repo, userID, "coding", day, 100)
	seedEntry(t, repo, userID, "reading", day, 80)
	seedEntry(t, repo, userID, "exercise", day, 300)
	seedEntry(t, repo, userID, "retired-task", day, 50)

	handler := NewGetCategoryBreakdownHandler(newCalculator(repo))

	breakdown, err := handler.Handle(context.Background(), GetCategoryBreakdownQuery{UserID: userID, Date: day})

	require.NoError(t, err)
	require.Len(t, breakdown, 2)
	assert.Equal(t, services.CategoryPoints{Category: "Fitness", Points: 300}, breakdown[0])
	assert.Equal(t, services.CategoryPoints{Category: "Learning", Points: 180}, breakdown[1])
}
