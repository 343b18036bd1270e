package mapper

import (
	"encoding/json"
	"time"

	"chowbot-be/internal/entity"
	"chowbot-be/internal/model"
)

type OrderMapper struct{}

func NewOrderMapper() *OrderMapper {
	return &OrderMapper{}
}

func (m *OrderMapper) ToEntity(o *model.Order) *entity.Order {
	if o == nil {
		return nil
	}

	var items []entity.OrderItem
	if len(o.Items) > 0 {
		_ = json.Unmarshal(o.Items, &items)
	}

	var updatedAt *time.Time
	if !o.UpdatedAt.IsZero() {
		t := o.UpdatedAt
		updatedAt = &t
	}

	return &entity.Order{
		Id:               o.Id,
		SessionId:        o.SessionId,
		DeviceId:         o.DeviceId,
		OrderNumber:      o.OrderNumber,
		Items:            items,
		TotalAmount:      o.TotalAmount,
		Status:           entity.OrderStatus(o.Status),
		PaymentReference: o.PaymentReference,
		PaymentStatus:    entity.PaymentStatus(o.PaymentStatus),
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *OrderMapper) ToModel(o *entity.Order) *model.Order {
	if o == nil {
		return nil
	}

	items := o.Items
	if items == nil {
		items = []entity.OrderItem{}
	}
	itemsJSON, _ := json.Marshal(items)

	var updatedAt time.Time
	if o.UpdatedAt != nil {
		updatedAt = *o.UpdatedAt
	}

	return &model.Order{
		Id:               o.Id,
		SessionId:        o.SessionId,
		DeviceId:         o.DeviceId,
		OrderNumber:      o.OrderNumber,
		Items:            itemsJSON,
		TotalAmount:      o.TotalAmount,
		Status:           string(o.Status),
		PaymentReference: o.PaymentReference,
		PaymentStatus:    string(o.PaymentStatus),
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *OrderMapper) ToEntities(models []*model.Order) []*entity.Order {
	entities := make([]*entity.Order, len(models))
	for i, o := range models {
		entities[i] = m.ToEntity(o)
	}
	return entities
}
