package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/tracking/domain"
)

// mockLogRepo implements domain.LogRepository for testing
type mockLogRepo struct {
	entries []*domain.LogEntry
	err     error
}

func newMockLogRepo() *mockLogRepo {
	return &mockLogRepo{}
}

func (m *mockLogRepo) Append(_ context.Context, entry *domain.LogEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockLogRepo) FindByUserAndDayRange(_ context.Context, userID uuid.UUID, fromDay, toDay string) ([]*domain.LogEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []*domain.LogEntry
	for _, e := range m.entries {
		if e.UserID() == userID && e.Day() >= fromDay && e.Day() <= toDay {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockLogRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*domain.LogEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []*domain.LogEntry
	for _, e := range m.entries {
		if e.UserID() == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockLogRepo) ActiveDays(_ context.Context, userID uuid.UUID) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	seen := make(map[string]struct{})
	for _, e := range m.entries {
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

// mockResolver implements TaskResolver with a fixed lookup table
type mockResolver struct {
	categories map[string]string
}

func (m *mockResolver) Category(taskID string) (string, bool) {
	c, ok := m.categories[taskID]
	return c, ok
}

func mustEntry(userID uuid.UUID, taskID string, completedAt time.Time, base int, rarity domain.Rarity, minutes, streak int) *domain.LogEntry {
	entry, err := domain.NewLogEntry(userID, taskID, completedAt, base, rarity, minutes, streak)
	if err != nil {
		panic(err)
	}
	return entry
}
