package dto

import "github.com/google/uuid"

// PublishReceiptMessage is the in-process job queued after a successful
// charge; the receipt consumer picks it up and emails the customer.
type PublishReceiptMessage struct {
	OrderId uuid.UUID `json:"order_id"`
	Email   string    `json:"email"`
}
