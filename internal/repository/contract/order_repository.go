package contract

import (
	"context"
	"errors"

	"chowbot-be/internal/entity"
	"chowbot-be/internal/repository/specification"
)

// ErrDuplicateOrder is returned by Create when the partial unique index on
// (session_id) WHERE status = 'pending' rejects a second pending order.
var ErrDuplicateOrder = errors.New("pending order already exists for session")

type OrderRepository interface {
	// Create persists a new order. Returns ErrDuplicateOrder when another
	// pending order for the same session won the create race.
	Create(ctx context.Context, order *entity.Order) error
	Update(ctx context.Context, order *entity.Order) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
