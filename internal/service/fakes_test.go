package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"chowbot-be/internal/dto"
	"chowbot-be/internal/entity"
	"chowbot-be/internal/pkg/logger"
	"chowbot-be/internal/repository/contract"
	"chowbot-be/internal/repository/specification"
	"chowbot-be/internal/repository/unitofwork"
)

// In-memory repository doubles. They interpret the same specification values
// the GORM implementations translate to SQL, so service logic exercises its
// real query intent.

type fakeStore struct {
	conversations []*entity.Conversation
	orders        []*entity.Order
	// beforeOrderCreate, when set, runs once at the top of the next order
	// Create. Tests use it to slip a competing write in between a service's
	// find-miss and its create, the way a second process would.
	beforeOrderCreate func()
	// failNextOrderUpdate, when set, fails the next order Update once.
	failNextOrderUpdate error
}

type fakeFactory struct {
	store *fakeStore
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{store: &fakeStore{}}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

type fakeUnitOfWork struct {
	store *fakeStore
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) ConversationRepository() contract.ConversationRepository {
	return &fakeConversationRepo{store: u.store}
}

func (u *fakeUnitOfWork) OrderRepository() contract.OrderRepository {
	return &fakeOrderRepo{store: u.store}
}

type fakeConversationRepo struct {
	store *fakeStore
}

func (r *fakeConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	if conversation.Id == uuid.Nil {
		conversation.Id = uuid.New()
	}
	conversation.CreatedAt = time.Now()
	clone := *conversation
	r.store.conversations = append(r.store.conversations, &clone)
	return nil
}

func (r *fakeConversationRepo) Update(ctx context.Context, conversation *entity.Conversation) error {
	for i, existing := range r.store.conversations {
		if existing.Id == conversation.Id {
			clone := *conversation
			r.store.conversations[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("conversation %s not found", conversation.Id)
}

func (r *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	matches := r.filter(specs)
	if len(matches) == 0 {
		return nil, nil
	}
	clone := *matches[0]
	return &clone, nil
}

func (r *fakeConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	return r.filter(specs), nil
}

func (r *fakeConversationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.filter(specs))), nil
}

func (r *fakeConversationRepo) MarkInactiveWhere(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var marked int64
	for _, c := range r.filter(specs) {
		c.IsActive = false
		marked++
	}
	return marked, nil
}

func (r *fakeConversationRepo) DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var kept []*entity.Conversation
	var deleted int64
	matches := map[uuid.UUID]bool{}
	for _, c := range r.filter(specs) {
		matches[c.Id] = true
	}
	for _, c := range r.store.conversations {
		if matches[c.Id] {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	r.store.conversations = kept
	return deleted, nil
}

func (r *fakeConversationRepo) filter(specs []specification.Specification) []*entity.Conversation {
	var out []*entity.Conversation
	for _, c := range r.store.conversations {
		if conversationMatches(c, specs) {
			out = append(out, c)
		}
	}
	return out
}

func conversationMatches(c *entity.Conversation, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.BySessionId:
			if c.SessionId != s.SessionId {
				return false
			}
		case specification.ByID:
			if c.Id != s.ID {
				return false
			}
		case specification.InactiveSince:
			if !c.LastActivity.Before(s.Cutoff) {
				return false
			}
		case specification.ActiveIs:
			if c.IsActive != s.Active {
				return false
			}
		}
	}
	return true
}

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if hook := r.store.beforeOrderCreate; hook != nil {
		r.store.beforeOrderCreate = nil
		hook()
	}
	// Same rule the partial unique index enforces in Postgres.
	if order.Status == entity.OrderStatusPending {
		for _, existing := range r.store.orders {
			if existing.SessionId == order.SessionId && existing.Status == entity.OrderStatusPending {
				return contract.ErrDuplicateOrder
			}
		}
	}
	if order.Id == uuid.Nil {
		order.Id = uuid.New()
	}
	order.CreatedAt = time.Now()
	clone := cloneOrder(order)
	r.store.orders = append(r.store.orders, clone)
	return nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	if err := r.store.failNextOrderUpdate; err != nil {
		r.store.failNextOrderUpdate = nil
		return err
	}
	for i, existing := range r.store.orders {
		if existing.Id == order.Id {
			r.store.orders[i] = cloneOrder(order)
			return nil
		}
	}
	return fmt.Errorf("order %s not found", order.Id)
}

func (r *fakeOrderRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	matches := r.filter(specs)
	if len(matches) == 0 {
		return nil, nil
	}
	return cloneOrder(matches[0]), nil
}

func (r *fakeOrderRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error) {
	matches := r.filter(specs)
	out := make([]*entity.Order, 0, len(matches))
	for _, o := range matches {
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func (r *fakeOrderRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.filter(specs))), nil
}

func (r *fakeOrderRepo) filter(specs []specification.Specification) []*entity.Order {
	var out []*entity.Order
	for _, o := range r.store.orders {
		if orderMatches(o, specs) {
			out = append(out, o)
		}
	}

	for _, spec := range specs {
		if s, ok := spec.(specification.OrderBy); ok && s.Field == "created_at" {
			sort.SliceStable(out, func(i, j int) bool {
				if s.Desc {
					return out[i].CreatedAt.After(out[j].CreatedAt)
				}
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			})
		}
	}
	for _, spec := range specs {
		if s, ok := spec.(specification.Limit); ok && len(out) > s.Count {
			out = out[:s.Count]
		}
	}
	return out
}

func orderMatches(o *entity.Order, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if o.Id != s.ID {
				return false
			}
		case specification.BySessionId:
			if o.SessionId != s.SessionId {
				return false
			}
		case specification.ByStatus:
			if string(o.Status) != s.Status {
				return false
			}
		case specification.ByStatusIn:
			found := false
			for _, status := range s.Statuses {
				if string(o.Status) == status {
					found = true
				}
			}
			if !found {
				return false
			}
		case specification.ByPaymentReference:
			if o.PaymentReference == nil || *o.PaymentReference != s.Reference {
				return false
			}
		}
	}
	return true
}

func cloneOrder(o *entity.Order) *entity.Order {
	clone := *o
	clone.Items = append([]entity.OrderItem(nil), o.Items...)
	if o.PaymentReference != nil {
		ref := *o.PaymentReference
		clone.PaymentReference = &ref
	}
	return &clone
}

// nopLogger satisfies logger.ILogger for tests that do not assert on logs.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}

// fakePaymentGateway scripts the provider interaction for conversation tests.
type fakePaymentGateway struct {
	failCharge  bool
	lastEmail   string
	initiations int
}

func (f *fakePaymentGateway) InitiateCharge(ctx context.Context, email string, order *entity.Order) (*dto.PaymentDataDTO, error) {
	f.initiations++
	f.lastEmail = email
	if f.failCharge {
		return nil, fmt.Errorf("provider unavailable")
	}
	return &dto.PaymentDataDTO{
		Email:       email,
		Amount:      order.AmountInKobo(),
		Reference:   "ref_" + order.OrderNumber,
		PublicKey:   "pk_test",
		OrderId:     order.Id.String(),
		OrderNumber: order.OrderNumber,
	}, nil
}

func (f *fakePaymentGateway) HandleWebhook(ctx context.Context, signature string, rawBody []byte) error {
	return nil
}

func (f *fakePaymentGateway) CheckPaymentStatus(ctx context.Context, sessionId, reference string) (*dto.CheckPaymentResponse, error) {
	return &dto.CheckPaymentResponse{Success: true, Response: "pending"}, nil
}
