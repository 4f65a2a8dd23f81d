package notify

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
	"github.com/jonesrussell/sentiment-watchdog/internal/logging"
)

func testAlert() *domain.Alert {
	return &domain.Alert{
		ID:           "a1",
		RuleID:       "r1",
		Emotion:      domain.EmotionAngry,
		MessageCount: 3,
		TimeWindow:   15,
		Summary:      "3 angry messages in 15 minutes",
		TriggeredAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Delivery:     domain.DeliveryPending,
	}
}

func TestEmailNotifier_DisabledReturnsErrDisabled(t *testing.T) {
	n := NewEmailNotifier(EmailConfig{Enabled: false}, logging.NewNop())

	err := n.Notify(context.Background(), testAlert())
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestEmailNotifier_NoRecipientsReturnsErrDisabled(t *testing.T) {
	n := NewEmailNotifier(EmailConfig{Enabled: true}, logging.NewNop())

	err := n.Notify(context.Background(), testAlert())
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestEmailNotifier_SendsToAllRecipients(t *testing.T) {
	n := NewEmailNotifier(EmailConfig{
		Enabled:    true,
		Host:       "smtp.example.com",
		Port:       587,
		From:       "watchdog@example.com",
		Recipients: []string{"oncall@example.com", "support-lead@example.com"},
	}, logging.NewNop())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, n.Notify(context.Background(), testAlert()))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "watchdog@example.com", gotFrom)
	assert.Equal(t, []string{"oncall@example.com", "support-lead@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Sentiment alert: angry spike detected")
	assert.Contains(t, string(gotMsg), "3 angry messages in 15 minutes")
}

func TestEmailNotifier_SendFailureIsWrapped(t *testing.T) {
	n := NewEmailNotifier(EmailConfig{
		Enabled:    true,
		Host:       "smtp.example.com",
		Port:       587,
		Recipients: []string{"oncall@example.com"},
	}, logging.NewNop())

	sendErr := errors.New("connection refused")
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		return sendErr
	}

	err := n.Notify(context.Background(), testAlert())
	require.Error(t, err)
	assert.ErrorIs(t, err, sendErr)
	assert.NotErrorIs(t, err, ErrDisabled)
}
