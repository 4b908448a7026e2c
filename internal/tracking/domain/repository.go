package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrStorageUnavailable wraps backend failures so callers can distinguish
// infrastructure trouble from domain errors.
var ErrStorageUnavailable = errors.New("log storage unavailable")

// LogRepository persists task completions. Entries are append-only;
// there is no update or delete of individual completions.
type LogRepository interface {
	// Append stores a new completion.
	Append(ctx context.Context, entry *LogEntry) error

	// FindByUserAndDayRange returns all completions for a user whose
	// local day falls within [fromDay, toDay], both inclusive, in
	// DayFormat. Results are ordered by completion time ascending.
	FindByUserAndDayRange(ctx context.Context, userID uuid.UUID, fromDay, toDay string) ([]*LogEntry, error)

	// FindByUser returns every completion for a user ordered by
	// completion time ascending.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*LogEntry, error)

	// ActiveDays returns the distinct local days with at least one
	// completion for the user, in DayFormat, sorted ascending.
	ActiveDays(ctx context.Context, userID uuid.UUID) ([]string, error)
}
