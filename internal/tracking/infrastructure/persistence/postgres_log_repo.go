package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	sharedPersistence "github.com/mfeller/questlog/internal/shared/infrastructure/persistence"
	"github.com/mfeller/questlog/internal/tracking/domain"
)

// PostgresLogRepository implements domain.LogRepository using PostgreSQL.
type PostgresLogRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLogRepository creates a new Postgres log repository.
func NewPostgresLogRepository(pool *pgxpool.Pool) *PostgresLogRepository {
	return &PostgresLogRepository{pool: pool}
}

func (r *PostgresLogRepository) executor(ctx context.Context) sharedPersistence.DBExecutor {
	return sharedPersistence.Executor(ctx, r.pool)
}

// Append stores a new completion.
func (r *PostgresLogRepository) Append(ctx context.Context, entry *domain.LogEntry) error {
	query := `
		INSERT INTO task_logs (
			id, user_id, task_id, completed_at, completed_on,
			duration_minutes, rarity, points_earned, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.executor(ctx).Exec(ctx, query,
		entry.ID(),
		entry.UserID(),
		entry.TaskID(),
		entry.CompletedAt().UTC(),
		entry.Day(),
		entry.DurationMinutes(),
		entry.Rarity().String(),
		entry.PointsEarned(),
		entry.CreatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

const postgresSelectColumns = `
	SELECT id, user_id, task_id, completed_at, completed_on,
		duration_minutes, rarity, points_earned, created_at
	FROM task_logs
`

// FindByUserAndDayRange returns completions within [fromDay, toDay] inclusive.
func (r *PostgresLogRepository) FindByUserAndDayRange(ctx context.Context, userID uuid.UUID, fromDay, toDay string) ([]*domain.LogEntry, error) {
	query := postgresSelectColumns + `
		WHERE user_id = $1 AND completed_on >= $2 AND completed_on <= $3
		ORDER BY completed_at ASC
	`
	rows, err := r.executor(ctx).Query(ctx, query, userID, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	return scanPostgresEntries(rows)
}

// FindByUser returns every completion for the user.
func (r *PostgresLogRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.LogEntry, error) {
	query := postgresSelectColumns + `
		WHERE user_id = $1
		ORDER BY completed_at ASC
	`
	rows, err := r.executor(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	return scanPostgresEntries(rows)
}

// ActiveDays returns the distinct local days with activity, ascending.
func (r *PostgresLogRepository) ActiveDays(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT DISTINCT completed_on
		FROM task_logs
		WHERE user_id = $1
		ORDER BY completed_on ASC
	`
	rows, err := r.executor(ctx).Query(ctx, query, userID)
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

func scanPostgresEntries(rows pgx.Rows) ([]*domain.LogEntry, error) {
	var entries []*domain.LogEntry
	for rows.Next() {
		var (
			id              uuid.UUID
			userID          uuid.UUID
			taskID          string
			completedAt     time.Time
			completedOn     string
			durationMinutes int
			rarity          string
			pointsEarned    int
			createdAt       time.Time
		)
		if err := rows.Scan(&id, &userID, &taskID, &completedAt, &completedOn,
			&durationMinutes, &rarity, &pointsEarned, &createdAt); err != nil {
			return nil, err
		}

		entries = append(entries, domain.RehydrateLogEntry(
			id,
			userID,
			taskID,
			completedAt,
			completedOn,
			durationMinutes,
			domain.Rarity(rarity),
			pointsEarned,
			createdAt,
		))
	}
	return entries, rows.Err()
}
