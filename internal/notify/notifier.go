// Package notify delivers alert notifications. Delivery is fire-and-forget
// from the engine's perspective: a failure here degrades the alert's
// delivery status but never rolls back the alert record.
package notify

import (
	"context"
	"errors"

	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
)

// ErrDisabled is returned when notifications are switched off; the engine
// records the alert's delivery as skipped rather than failed.
var ErrDisabled = errors.New("notifications disabled")

// Notifier delivers a single alert to the configured recipients.
type Notifier interface {
	Notify(ctx context.Context, alert *domain.Alert) error
}
