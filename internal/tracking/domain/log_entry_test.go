package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogEntry(t *testing.T) {
	userID := uuid.New()
	completedAt := time.Date(2026, 3, 14, 21, 30, 0, 0, time.Local)

	entry, err := NewLogEntry(userID, "deep-work", completedAt, 150, RarityLegendary, 90, 3)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, entry.ID())
	assert.Equal(t, userID, entry.UserID())
	assert.Equal(t, "deep-work", entry.TaskID())
	assert.Equal(t, completedAt, entry.CompletedAt())
	assert.Equal(t, "2026-03-14", entry.Day())
	assert.Equal(t, 90, entry.DurationMinutes())
	assert.Equal(t, RarityLegendary, entry.Rarity())
	// 150 * 3.0 * 1.3 * 1.15 = 672.75
	assert.Equal(t, 673, entry.PointsEarned())
}

func TestNewLogEntry_EmitsEvent(t *testing.T) {
	userID := uuid.New()
	entry, err := NewLogEntry(userID, "reading", time.Now(), 80, RarityCommon, 30, 0)

	require.NoError(t, err)
	events := entry.DomainEvents()
	require.Len(t, events, 1)

	recorded, ok := events[0].(*CompletionRecorded)
	require.True(t, ok)
	assert.Equal(t, entry.ID(), recorded.AggregateID())
	assert.Equal(t, userID, recorded.UserID)
	assert.Equal(t, "reading", recorded.TaskID)
	assert.Equal(t, entry.PointsEarned(), recorded.PointsEarned)
	assert.Equal(t, "tracking.completion.recorded", recorded.RoutingKey())
}

func TestNewLogEntry_Validation(t *testing.T) {
	now := time.Now()

	_, err := NewLogEntry(uuid.Nil, "reading", now, 80, RarityCommon, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidUserID)

	_, err = NewLogEntry(uuid.New(), "", now, 80, RarityCommon, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidTaskID)

	_, err = NewLogEntry(uuid.New(), "reading", now, 0, RarityCommon, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidBasePoints)

	_, err = NewLogEntry(uuid.New(), "reading", now, 80, Rarity("mythic"), 0, 0)
	assert.ErrorIs(t, err, ErrInvalidRarity)
}

func TestNewLogEntry_NegativeDurationNormalized(t *testing.T) {
	entry, err := NewLogEntry(uuid.New(), "journaling", time.Now(), 60, RarityCommon, -15, 0)

	require.NoError(t, err)
	assert.Equal(t, 0, entry.DurationMinutes())
	assert.Equal(t, 60, entry.PointsEarned())
}

func TestRehydrateLogEntry(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()
	completedAt := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	createdAt := completedAt.Add(time.Second)

	entry := RehydrateLogEntry(id, userID, "exercise", completedAt, "2026-01-02", 45, RarityRare, 277, createdAt)

	assert.Equal(t, id, entry.ID())
	assert.Equal(t, userID, entry.UserID())
	assert.Equal(t, "2026-01-02", entry.Day())
	assert.Equal(t, 277, entry.PointsEarned())
	assert.Empty(t, entry.DomainEvents())
}
