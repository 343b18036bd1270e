package unitofwork

import "context"

// RepositoryFactory opens a fresh unit of work per conversation turn.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
