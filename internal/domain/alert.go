package domain

import "time"

// DeliveryStatus tracks the outcome of notifying recipients about an alert.
// Notification delivery is decoupled from alert creation: a failed delivery
// degrades the status but never invalidates the alert itself.
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
	// DeliverySkipped means notifications were disabled when the alert fired.
	DeliverySkipped DeliveryStatus = "skipped"
)

// Alert is an immutable record of a rule firing. Append-only history.
type Alert struct {
	ID           string         `db:"id"            json:"id"`
	RuleID       string         `db:"rule_id"       json:"rule_id"`
	Emotion      Emotion        `db:"emotion"       json:"emotion_type"`
	MessageCount int            `db:"message_count" json:"message_count"`
	TimeWindow   int            `db:"time_window"   json:"time_window"` // minutes
	Summary      string         `db:"summary"       json:"summary"`
	TriggeredAt  time.Time      `db:"triggered_at"  json:"triggered_at"`
	Delivery     DeliveryStatus `db:"delivery"      json:"delivery"`
}
