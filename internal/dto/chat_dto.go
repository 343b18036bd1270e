package dto

type InitChatRequest struct {
	SessionId string `json:"sessionId" validate:"required"`
}

type ChatRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionId string `json:"sessionId" validate:"required"`
}

// PaymentDataDTO is the opaque payload the chat client hands to the payment
// widget after a checkout turn. Amount is in kobo.
type PaymentDataDTO struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	PublicKey   string `json:"publicKey"`
	OrderId     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

type ChatResponse struct {
	Success     bool            `json:"success"`
	Response    string          `json:"response"`
	PaymentData *PaymentDataDTO `json:"paymentData,omitempty"`
}

type CheckPaymentRequest struct {
	Reference string `json:"reference" validate:"required"`
	SessionId string `json:"sessionId" validate:"required"`
}

type CheckPaymentResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Status   string `json:"status,omitempty"`
}
