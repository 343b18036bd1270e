package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	AccessToken string `json:"access_token"`
}

type AdminOrderItemDTO struct {
	ItemId   string `json:"item_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
}

type AdminOrderDTO struct {
	Id               uuid.UUID           `json:"id"`
	OrderNumber      string              `json:"order_number"`
	SessionId        string              `json:"session_id"`
	Items            []AdminOrderItemDTO `json:"items"`
	TotalAmount      int64               `json:"total_amount"`
	Status           string              `json:"status"`
	PaymentReference *string             `json:"payment_reference,omitempty"`
	PaymentStatus    string              `json:"payment_status"`
	CreatedAt        time.Time           `json:"created_at"`
}
