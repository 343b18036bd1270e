package dto

// PaystackWebhookEvent mirrors the provider's server-to-server payload. The
// controller verifies the header signature over the raw body before this is
// ever unmarshalled.
type PaystackWebhookEvent struct {
	Event string              `json:"event"`
	Data  PaystackWebhookData `json:"data"`
}

type PaystackWebhookData struct {
	Reference string          `json:"reference"`
	Amount    int64           `json:"amount"` // kobo
	Metadata  WebhookMetadata `json:"metadata"`
}

type WebhookMetadata struct {
	OrderId     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	SessionId   string `json:"sessionId"`
	DeviceId    string `json:"deviceId"`
	Email       string `json:"email"`
}
