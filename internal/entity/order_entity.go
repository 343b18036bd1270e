package entity

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusPaid      OrderStatus = "paid"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// OrderItem is one cart line. It carries a snapshot of the catalog item so
// historical orders stay correct if the menu changes.
type OrderItem struct {
	ItemId   string `json:"item_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
}

type Order struct {
	Id               uuid.UUID
	SessionId        string
	DeviceId         string
	OrderNumber      string
	Items            []OrderItem
	TotalAmount      int64
	Status           OrderStatus
	PaymentReference *string
	PaymentStatus    PaymentStatus
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// MergeItem folds a new line into the order: an existing line with the same
// item id gets its quantity bumped, otherwise the line is appended. The total
// is recomputed in the same step so it is never observed stale.
func (o *Order) MergeItem(item OrderItem) {
	for i := range o.Items {
		if o.Items[i].ItemId == item.ItemId {
			o.Items[i].Quantity += item.Quantity
			o.RecomputeTotal()
			return
		}
	}
	o.Items = append(o.Items, item)
	o.RecomputeTotal()
}

func (o *Order) RecomputeTotal() {
	var total int64
	for _, item := range o.Items {
		total += item.Price * int64(item.Quantity)
	}
	o.TotalAmount = total
}

func (o *Order) IsEmpty() bool {
	return len(o.Items) == 0
}

// AmountInKobo is the order total in the payment provider's minor units.
func (o *Order) AmountInKobo() int64 {
	return o.TotalAmount * 100
}
