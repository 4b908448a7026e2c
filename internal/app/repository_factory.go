package app

import (
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	profilesDomain "github.com/mfeller/questlog/internal/profiles/domain"
	profilesPersistence "github.com/mfeller/questlog/internal/profiles/infrastructure/persistence"
	sharedApplication "github.com/mfeller/questlog/internal/shared/application"
	"github.com/mfeller/questlog/internal/shared/infrastructure/database"
	"github.com/mfeller/questlog/internal/shared/infrastructure/database/postgres"
	"github.com/mfeller/questlog/internal/shared/infrastructure/database/sqlite"
	"github.com/mfeller/questlog/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/mfeller/questlog/internal/shared/infrastructure/persistence"
	trackingDomain "github.com/mfeller/questlog/internal/tracking/domain"
	trackingPersistence "github.com/mfeller/questlog/internal/tracking/infrastructure/persistence"
)

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// LogRepository creates a task log repository for the configured driver.
func (f *RepositoryFactory) LogRepository() (trackingDomain.LogRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return trackingPersistence.NewPostgresLogRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return trackingPersistence.NewSQLiteLogRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// ProfileRepository creates a profile repository for the configured driver.
func (f *RepositoryFactory) ProfileRepository() (profilesDomain.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return profilesPersistence.NewPostgresProfileRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return profilesPersistence.NewSQLiteProfileRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// OutboxRepository creates an outbox repository for the configured driver.
func (f *RepositoryFactory) OutboxRepository() (outbox.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return outbox.NewPostgresRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return outbox.NewSQLiteRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// UnitOfWork creates a unit of work for the configured driver.
func (f *RepositoryFactory) UnitOfWork() (sharedApplication.UnitOfWork, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return sharedPersistence.NewPostgresUnitOfWork(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return sharedPersistence.NewSQLiteUnitOfWork(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

func (f *RepositoryFactory) getPostgresPool() (*pgxpool.Pool, error) {
	conn, ok := f.conn.(*postgres.Connection)
	if !ok {
		return nil, fmt.Errorf("connection is not a postgres connection")
	}
	return conn.Pool(), nil
}

func (f *RepositoryFactory) getSQLiteDB() (*sql.DB, error) {
	conn, ok := f.conn.(*sqlite.Connection)
	if !ok {
		return nil, fmt.Errorf("connection is not a sqlite connection")
	}
	return conn.DB(), nil
}
