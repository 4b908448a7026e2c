package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/tracking/domain"
)

// DefaultMaxLookbackDays bounds the backward streak scan. The loop stops
// at the first inactive day in normal use; the cap is a safety valve for
// pathological log stores, not a limit users should ever hit.
const DefaultMaxLookbackDays = 3650

// StreakCalculator counts consecutive active days ending at a reference
// date. A day is active when the user logged at least one completion on
// it; the scan walks backward and stops at the first empty day, so a
// reference day without entries yields a streak of zero.
type StreakCalculator struct {
	logRepo         domain.LogRepository
	maxLookbackDays int
}

// NewStreakCalculator creates a streak calculator with the default
// lookback cap.
func NewStreakCalculator(logRepo domain.LogRepository) *StreakCalculator {
	return &StreakCalculator{
		logRepo:         logRepo,
		maxLookbackDays: DefaultMaxLookbackDays,
	}
}

// WithMaxLookback overrides the lookback cap. Values below one are ignored.
func (c *StreakCalculator) WithMaxLookback(days int) *StreakCalculator {
	if days >= 1 {
		c.maxLookbackDays = days
	}
	return c
}

// Streak returns the user's streak as of referenceDate's local calendar day.
func (c *StreakCalculator) Streak(ctx context.Context, userID uuid.UUID, referenceDate time.Time) (int, error) {
	activeDays, err := c.logRepo.ActiveDays(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("loading active days: %w", err)
	}
	if len(activeDays) == 0 {
		return 0, nil
	}

	active := make(map[string]struct{}, len(activeDays))
	for _, day := range activeDays {
		active[day] = struct{}{}
	}

	streak := 0
	day := referenceDate.Local()
	for i := 0; i < c.maxLookbackDays; i++ {
		if _, ok := active[day.Format(domain.DayFormat)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}
