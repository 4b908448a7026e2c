package application

import "context"

// UnitOfWork scopes a set of repository calls to one database
// transaction. Begin returns a context carrying the transaction;
// repositories that find it there join the transaction instead of
// using their own connection.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// WithUnitOfWork runs fn inside a transaction. A non-nil error from fn
// rolls back and is returned as-is; otherwise the transaction commits.
func WithUnitOfWork(ctx context.Context, uow UnitOfWork, fn func(ctx context.Context) error) error {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(txCtx); err != nil {
		_ = uow.Rollback(txCtx)
		return err
	}

	return uow.Commit(txCtx)
}
