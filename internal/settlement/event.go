package settlement

import "propcoin/internal/gateway"

// Provider webhook event names the engine reacts to. Anything else is
// acknowledged and dropped.
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

// WebhookEvent is the provider's event envelope.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity gateway.ProviderPayment `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}
