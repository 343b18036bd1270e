package contract

import (
	"context"

	"chowbot-be/internal/entity"
	"chowbot-be/internal/repository/specification"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	Update(ctx context.Context, conversation *entity.Conversation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// MarkInactiveWhere flips is_active off for every matching record and
	// returns how many were flipped. Only the reaper calls this.
	MarkInactiveWhere(ctx context.Context, specs ...specification.Specification) (int64, error)
	// DeleteWhere hard-deletes every matching record and returns how many went.
	// Only the reaper calls this.
	DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error)
}
