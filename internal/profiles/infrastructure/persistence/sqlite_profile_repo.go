package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/profiles/domain"
	sharedPersistence "github.com/mfeller/questlog/internal/shared/infrastructure/persistence"
	trackingDomain "github.com/mfeller/questlog/internal/tracking/domain"
)

// SQLiteProfileRepository implements domain.Repository using SQLite.
type SQLiteProfileRepository struct {
	db *sql.DB
}

// NewSQLiteProfileRepository creates a new SQLite profile repository.
func NewSQLiteProfileRepository(db *sql.DB) *SQLiteProfileRepository {
	return &SQLiteProfileRepository{db: db}
}

type sqliteExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SQLiteProfileRepository) executor(ctx context.Context) sqliteExecutor {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.db
}

// Save upserts the profile row and replaces its task selections.
func (r *SQLiteProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	exec := r.executor(ctx)

	_, err := exec.ExecContext(ctx, `
		INSERT INTO profiles (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at
	`,
		profile.ID().String(),
		profile.Name(),
		profile.CreatedAt().UTC().Format(time.RFC3339),
		profile.UpdatedAt().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	if _, err := exec.ExecContext(ctx, `DELETE FROM profile_tasks WHERE profile_id = ?`, profile.ID().String()); err != nil {
		return fmt.Errorf("clearing profile tasks: %w", err)
	}

	for _, task := range profile.SelectedTasks() {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO profile_tasks (profile_id, task_id, rarity, added_at)
			VALUES (?, ?, ?, ?)
		`,
			profile.ID().String(),
			task.TaskID,
			task.Rarity.String(),
			task.AddedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("saving profile task %s: %w", task.TaskID, err)
		}
	}

	return nil
}

// FindByID returns a profile, or nil when none exists.
func (r *SQLiteProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	exec := r.executor(ctx)

	var (
		name      string
		createdAt string
		updatedAt string
	)
	err := exec.QueryRowContext(ctx,
		`SELECT name, created_at, updated_at FROM profiles WHERE id = ?`,
		id.String(),
	).Scan(&name, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	selected, err := r.loadTasks(ctx, id)
	if err != nil {
		return nil, err
	}

	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing profile created_at %q: %w", createdAt, err)
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing profile updated_at %q: %w", updatedAt, err)
	}

	return domain.RehydrateProfile(id, name, selected, created, updated), nil
}

// FindAll returns every profile ordered by creation time.
func (r *SQLiteProfileRepository) FindAll(ctx context.Context) ([]*domain.Profile, error) {
	rows, err := r.executor(ctx).QueryContext(ctx,
		`SELECT id FROM profiles ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing profile id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	profiles := make([]*domain.Profile, 0, len(ids))
	for _, id := range ids {
		profile, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			profiles = append(profiles, profile)
		}
	}
	return profiles, nil
}

// Delete removes a profile and its selections.
func (r *SQLiteProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := r.executor(ctx)
	if _, err := exec.ExecContext(ctx, `DELETE FROM profile_tasks WHERE profile_id = ?`, id.String()); err != nil {
		return fmt.Errorf("deleting profile tasks: %w", err)
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}
	return nil
}

func (r *SQLiteProfileRepository) loadTasks(ctx context.Context, profileID uuid.UUID) ([]domain.SelectedTask, error) {
	rows, err := r.executor(ctx).QueryContext(ctx,
		`SELECT task_id, rarity, added_at FROM profile_tasks WHERE profile_id = ? ORDER BY added_at ASC`,
		profileID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("loading profile tasks: %w", err)
	}
	defer rows.Close()

	var selected []domain.SelectedTask
	for rows.Next() {
		var (
			taskID  string
			rarity  string
			addedAt string
		)
		if err := rows.Scan(&taskID, &rarity, &addedAt); err != nil {
			return nil, err
		}
		added, err := time.Parse(time.RFC3339, addedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing added_at %q: %w", addedAt, err)
		}
		selected = append(selected, domain.SelectedTask{
			TaskID:  taskID,
			Rarity:  trackingDomain.Rarity(rarity),
			AddedAt: added,
		})
	}
	return selected, rows.Err()
}
