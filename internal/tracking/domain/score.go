package domain

import (
	"errors"
	"math"
)

// DailyTargetPoints is the full-score daily target. Earning this many
// points in a local day yields a productivity score of 100.
const DailyTargetPoints = 500

// StreakMultiplierCap bounds the streak bonus at +50%.
const StreakMultiplierCap = 1.5

// ErrInvalidBasePoints is returned when a task's base point value is not
// strictly positive.
var ErrInvalidBasePoints = errors.New("base points must be positive")

// DurationMultiplier rewards longer sessions: each full hour adds 20%.
// Non-positive durations (including tasks without duration tracking)
// contribute no bonus.
func DurationMultiplier(durationMinutes int) float64 {
	if durationMinutes <= 0 {
		return 1.0
	}
	return 1.0 + (float64(durationMinutes)/60.0)*0.2
}

// StreakMultiplier rewards consecutive active days: 5% per day of the
// current streak, capped at StreakMultiplierCap.
func StreakMultiplier(streakDays int) float64 {
	if streakDays <= 0 {
		return 1.0
	}
	return math.Min(1.0+float64(streakDays)*0.05, StreakMultiplierCap)
}

// Score computes the points earned for a single completion.
//
//	points = round(base * rarity * duration * streak)
//
// Rounding is half-away-from-zero. The rarity must be valid and the base
// points strictly positive.
func Score(basePoints int, rarity Rarity, durationMinutes int, streakDays int) (int, error) {
	if basePoints <= 0 {
		return 0, ErrInvalidBasePoints
	}
	if !rarity.IsValid() {
		return 0, ErrInvalidRarity
	}

	raw := float64(basePoints) * rarity.Multiplier() * DurationMultiplier(durationMinutes) * StreakMultiplier(streakDays)
	return int(math.Round(raw)), nil
}

// ProductivityScore maps a day's total points onto a 0-100 scale against
// the daily target, clamped at 100.
func ProductivityScore(totalPoints int) int {
	if totalPoints <= 0 {
		return 0
	}
	score := int(math.Round(float64(totalPoints) / float64(DailyTargetPoints) * 100))
	if score > 100 {
		return 100
	}
	return score
}
