package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	sharedPersistence "github.com/mfeller/questlog/internal/shared/infrastructure/persistence"
	"github.com/mfeller/questlog/internal/tracking/domain"
)

// SQLiteLogRepository implements domain.LogRepository using SQLite.
type SQLiteLogRepository struct {
	db *sql.DB
}

// NewSQLiteLogRepository creates a new SQLite log repository.
func NewSQLiteLogRepository(db *sql.DB) *SQLiteLogRepository {
	return &SQLiteLogRepository{db: db}
}

type sqliteExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// executor returns the transaction from context when present, otherwise the db.
func (r *SQLiteLogRepository) executor(ctx context.Context) sqliteExecutor {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.db
}

// Append stores a new completion.
func (r *SQLiteLogRepository) Append(ctx context.Context, entry *domain.LogEntry) error {
	query := `
		INSERT INTO task_logs (
			id, user_id, task_id, completed_at, completed_on,
			duration_minutes, rarity, points_earned, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.executor(ctx).ExecContext(ctx, query,
		entry.ID().String(),
		entry.UserID().String(),
		entry.TaskID(),
		entry.CompletedAt().UTC().Format(time.RFC3339),
		entry.Day(),
		entry.DurationMinutes(),
		entry.Rarity().String(),
		entry.PointsEarned(),
		entry.CreatedAt().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

const sqliteSelectColumns = `
	SELECT id, user_id, task_id, completed_at, completed_on,
		duration_minutes, rarity, points_earned, created_at
	FROM task_logs
`

// FindByUserAndDayRange returns completions within [fromDay, toDay] inclusive.
func (r *SQLiteLogRepository) FindByUserAndDayRange(ctx context.Context, userID uuid.UUID, fromDay, toDay string) ([]*domain.LogEntry, error) {
	query := sqliteSelectColumns + `
		WHERE user_id = ? AND completed_on >= ? AND completed_on <= ?
		ORDER BY completed_at ASC
	`
	rows, err := r.executor(ctx).QueryContext(ctx, query, userID.String(), fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	return scanSQLiteEntries(rows)
}

// FindByUser returns every completion for the user.
func (r *SQLiteLogRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.LogEntry, error) {
	query := sqliteSelectColumns + `
		WHERE user_id = ?
		ORDER BY completed_at ASC
	`
	rows, err := r.executor(ctx).QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	return scanSQLiteEntries(rows)
}

// ActiveDays returns the distinct local days with activity, ascending.
func (r *SQLiteLogRepository) ActiveDays(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT DISTINCT completed_on
		FROM task_logs
		WHERE user_id = ?
		ORDER BY completed_on ASC
	`
	rows, err := r.executor(ctx).QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func scanSQLiteEntries(rows *sql.Rows) ([]*domain.LogEntry, error) {
	var entries []*domain.LogEntry
	for rows.Next() {
		var (
			id              string
			userID          string
			taskID          string
			completedAt     string
			completedOn     string
			durationMinutes int
			rarity          string
			pointsEarned    int
			createdAt       string
		)
		if err := rows.Scan(&id, &userID, &taskID, &completedAt, &completedOn,
			&durationMinutes, &rarity, &pointsEarned, &createdAt); err != nil {
			return nil, err
		}

		entryID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parsing log entry id %q: %w", id, err)
		}
		entryUserID, err := uuid.Parse(userID)
		if err != nil {
			return nil, fmt.Errorf("parsing log entry user id %q: %w", userID, err)
		}
		completedAtTime, err := time.Parse(time.RFC3339, completedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing completed_at %q: %w", completedAt, err)
		}
		createdAtTime, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
		}

		entries = append(entries, domain.RehydrateLogEntry(
			entryID,
			entryUserID,
			taskID,
			completedAtTime,
			completedOn,
			durationMinutes,
			domain.Rarity(rarity),
			pointsEarned,
			createdAtTime,
		))
	}
	return entries, rows.Err()
}
