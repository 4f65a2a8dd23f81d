package domain

import "time"

// Alert rule parameter bounds, matching the configuration UI.
const (
	MinThreshold     = 1
	MaxThreshold     = 50
	MinWindowMinutes = 5
	MaxWindowMinutes = 120
)

// AlertRule is a user-configured firing condition: more than Threshold
// messages tagged with Emotion inside a trailing window of TimeWindow
// minutes. Rules are an unordered collection; multiple rules may target
// the same emotion with different thresholds or windows.
type AlertRule struct {
	ID         string    `db:"id"          json:"id"`
	Emotion    Emotion   `db:"emotion"     json:"emotion_type"`
	Threshold  int       `db:"threshold"   json:"threshold"`
	TimeWindow int       `db:"time_window" json:"time_window"` // minutes
	Enabled    bool      `db:"enabled"     json:"enabled"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"  json:"updated_at"`
}

// Window returns the rule's trailing window as a duration.
func (r *AlertRule) Window() time.Duration {
	return time.Duration(r.TimeWindow) * time.Minute
}

// Validate checks the rule's parameters against the configured bounds.
// Malformed rules are rejected at upsert time; evaluation has no error path.
func (r *AlertRule) Validate() error {
	if !ValidEmotion(r.Emotion) {
		return NewValidationError("emotion_type", "unknown emotion tag")
	}
	if r.Threshold < MinThreshold || r.Threshold > MaxThreshold {
		return NewValidationError("threshold", "must be between 1 and 50 messages")
	}
	if r.TimeWindow < MinWindowMinutes || r.TimeWindow > MaxWindowMinutes {
		return NewValidationError("time_window", "must be between 5 and 120 minutes")
	}
	return nil
}
