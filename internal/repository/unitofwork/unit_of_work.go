package unitofwork

import (
	"context"

	"chowbot-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one logical operation. Begin/Commit
// wrap the repositories in a single database transaction; without Begin they
// run against the bare connection.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ConversationRepository() contract.ConversationRepository
	OrderRepository() contract.OrderRepository
}
