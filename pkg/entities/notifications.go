package entities

import "time"

type NotificationKind string

const (
	KindSubscriptionActivated NotificationKind = "subscription_activated"
	KindSubscriptionExpired   NotificationKind = "subscription_expired"
	KindPaymentFailed         NotificationKind = "payment_failed"
	KindStartOver             NotificationKind = "start_over"
	KindRetryLater            NotificationKind = "retry_later"
	KindOperatorAlert         NotificationKind = "operator_alert"
)

// Notification is an outbound event handed to the messaging layer as plain
// data. Rendering and delivery happen outside the core.
type Notification struct {
	ID        string                 `json:"id"`
	Kind      NotificationKind       `json:"kind"`
	UserID    string                 `json:"user_id,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
