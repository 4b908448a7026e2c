package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mfeller/questlog/internal/profiles/domain"
	sharedPersistence "github.com/mfeller/questlog/internal/shared/infrastructure/persistence"
	trackingDomain "github.com/mfeller/questlog/internal/tracking/domain"
)

// PostgresProfileRepository implements domain.Repository using PostgreSQL.
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProfileRepository creates a new Postgres profile repository.
func NewPostgresProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

func (r *PostgresProfileRepository) executor(ctx context.Context) sharedPersistence.DBExecutor {
	return sharedPersistence.Executor(ctx, r.pool)
}

// Save upserts the profile row and replaces its task selections.
func (r *PostgresProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	exec := r.executor(ctx)

	_, err := exec.Exec(ctx, `
		INSERT INTO profiles (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at
	`,
		profile.ID(), profile.Name(), profile.CreatedAt().UTC(), profile.UpdatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	if _, err := exec.Exec(ctx, `DELETE FROM profile_tasks WHERE profile_id = $1`, profile.ID()); err != nil {
		return fmt.Errorf("clearing profile tasks: %w", err)
	}

	for _, task := range profile.SelectedTasks() {
		_, err := exec.Exec(ctx, `
			INSERT INTO profile_tasks (profile_id, task_id, rarity, added_at)
			VALUES ($1, $2, $3, $4)
		`,
			profile.ID(), task.TaskID, task.Rarity.String(), task.AddedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("saving profile task %s: %w", task.TaskID, err)
		}
	}

	return nil
}

// FindByID returns a profile, or nil when none exists.
func (r *PostgresProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	exec := r.executor(ctx)

	var (
		name      string
		createdAt time.Time
		updatedAt time.Time
	)
	err := exec.QueryRow(ctx,
		`SELECT name, created_at, updated_at FROM profiles WHERE id = $1`, id,
	).Scan(&name, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	selected, err := r.loadTasks(ctx, id)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateProfile(id, name, selected, createdAt, updatedAt), nil
}

// FindAll returns every profile ordered by creation time.
func (r *PostgresProfileRepository) FindAll(ctx context.Context) ([]*domain.Profile, error) {
	rows, err := r.executor(ctx).Query(ctx,
		`SELECT id FROM profiles ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
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
func (r *PostgresProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := r.executor(ctx)
	if _, err := exec.Exec(ctx, `DELETE FROM profile_tasks WHERE profile_id = $1`, id); err != nil {
		return fmt.Errorf("deleting profile tasks: %w", err)
	}
	if _, err := exec.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}
	return nil
}

func (r *PostgresProfileRepository) loadTasks(ctx context.Context, profileID uuid.UUID) ([]domain.SelectedTask, error) {
	rows, err := r.executor(ctx).Query(ctx,
		`SELECT task_id, rarity, added_at FROM profile_tasks WHERE profile_id = $1 ORDER BY added_at ASC`,
		profileID,
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
			addedAt time.Time
		)
		if err := rows.Scan(&taskID, &rarity, &addedAt); err != nil {
			return nil, err
		}
		selected = append(selected, domain.SelectedTask{
			TaskID:  taskID,
			Rarity:  trackingDomain.Rarity(rarity),
			AddedAt: addedAt,
		})
	}
	return selected, rows.Err()
}
