package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfeller/questlog/internal/shared/infrastructure/migrations"
	"github.com/mfeller/questlog/internal/tracking/domain"

	_ "modernc.org/sqlite"
)

// setupSQLiteTestDB creates an in-memory SQLite database with the schema applied.
func setupSQLiteTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), sqlDB))

	return sqlDB
}

// localNoon avoids day boundary surprises when completed_on is derived
// from the local calendar day.
func localNoon(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.Local)
}

func newTestEntry(t *testing.T, userID uuid.UUID, taskID string, completedAt time.Time) *domain.LogEntry {
	t.Helper()

	entry, err := domain.NewLogEntry(userID, taskID, completedAt, 100, domain.RarityCommon, 0, 0)
	require.NoError(t, err)
	return entry
}

func TestSQLiteLogRepository_AppendAndFindByUser(t *testing.T) {
	sqlDB := setupSQLiteTestDB(t)
	repo := NewSQLiteLogRepository(sqlDB)
	ctx := context.Background()

	userID := uuid.New()
	completedAt := localNoon(2026, time.May, 10)

	entry, err := domain.NewLogEntry(userID, "coding", completedAt, 100, domain.RarityUncommon, 30, 2)
	require.NoError(t, err)

	require.NoError(t, repo.Append(ctx, entry))

	found, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, found, 1)

	got := found[0]
	assert.Equal(t, entry.ID(), got.ID())
	assert.Equal(t, userID, got.UserID())
	assert.Equal(t, "coding", got.TaskID())
	assert.True(t, entry.CompletedAt().Equal(got.CompletedAt()))
	assert.Equal(t, entry.Day(), got.Day())
	assert.Equal(t, 30, got.DurationMinutes())
	assert.Equal(t, domain.RarityUncommon, got.Rarity())
	assert.Equal(t, entry.PointsEarned(), got.PointsEarned())
}

func TestSQLiteLogRepository_FindByUserAndDayRange(t *testing.T) {
	sqlDB := setupSQLiteTestDB(t)
	repo := NewSQLiteLogRepository(sqlDB)
	ctx := context.Background()

	userID := uuid.New()
	otherUser := uuid.New()

	days := []time.Time{
		localNoon(2026, time.May, 8),
		localNoon(2026, time.May, 9),
		localNoon(2026, time.May, 10),
		localNoon(2026, time.May, 11),
	}
	for _, day := range days {
		require.NoError(t, repo.Append(ctx, newTestEntry(t, userID, "reading", day)))
	}
	require.NoError(t, repo.Append(ctx, newTestEntry(t, otherUser, "reading", days[1])))

	from := days[1].Format(domain.DayFormat)
	to := days[2].Format(domain.DayFormat)

	found, err := repo.FindByUserAndDayRange(ctx, userID, from, to)
	require.NoError(t, err)
	require.Len(t, found, 2)

	// Inclusive range, oldest first, other users excluded.
	assert.Equal(t, from, found[0].Day())
	assert.Equal(t, to, found[1].Day())
	for _, entry := range found {
		assert.Equal(t, userID, entry.UserID())
	}
}

func TestSQLiteLogRepository_FindByUserAndDayRange_Empty(t *testing.T) {
	sqlDB := setupSQLiteTestDB(t)
	repo := NewSQLiteLogRepository(sqlDB)

	found, err := repo.FindByUserAndDayRange(context.Background(), uuid.New(), "2026-05-01", "2026-05-07")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSQLiteLogRepository_ActiveDays(t *testing.T) {
	sqlDB := setupSQLiteTestDB(t)
	repo := NewSQLiteLogRepository(sqlDB)
	ctx := context.Background()

	userID := uuid.New()

	// Two completions on the same day collapse to one active day.
	require.NoError(t, repo.Append(ctx, newTestEntry(t, userID, "exercise", localNoon(2026, time.May, 10))))
	require.NoError(t, repo.Append(ctx, newTestEntry(t, userID, "reading", localNoon(2026, time.May, 10))))
	require.NoError(t, repo.Append(ctx, newTestEntry(t, userID, "reading", localNoon(2026, time.May, 8))))

	days, err := repo.ActiveDays(ctx, userID)
	require.NoError(t, err)

	expected := []string{
		localNoon(2026, time.May, 8).Format(domain.DayFormat),
		localNoon(2026, time.May, 10).Format(domain.DayFormat),
	}
	assert.Equal(t, expected, days)
}
