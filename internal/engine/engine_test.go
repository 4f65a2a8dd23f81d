package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/sentiment-watchdog/internal/classifier"
	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
	"github.com/jonesrussell/sentiment-watchdog/internal/notify"
)

// scriptedClassifier returns canned classifications keyed by message text.
type scriptedClassifier struct {
	results map[string]classifier.Classification
	err     error
}

func (s *scriptedClassifier) Classify(_ context.Context, text string) (classifier.Classification, error) {
	if s.err != nil {
		return classifier.Classification{}, s.err
	}
	if result, ok := s.results[text]; ok {
		return result, nil
	}
	return classifier.Classification{Emotions: []domain.Emotion{domain.EmotionNeutral}}, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	err    error
	alerts chan domain.Alert
}

func newRecordingNotifier(err error) *recordingNotifier {
	return &recordingNotifier{err: err, alerts: make(chan domain.Alert, 8)}
}

func (n *recordingNotifier) Notify(_ context.Context, alert *domain.Alert) error {
	n.alerts <- *alert
	return n.err
}

func angryClassification() classifier.Classification {
	return classifier.Classification{
		Emotions: []domain.Emotion{domain.EmotionAngry},
		Score:    -3,
	}
}

func newTestEngine(clf classifier.Classifier, notifier notify.Notifier, clock *fakeClock) *Engine {
	return New(Config{
		Workspace:  "test",
		Classifier: clf,
		Notifier:   notifier,
		Clock:      clock.Now,
	})
}

func TestEngine_AddMessageValidation(t *testing.T) {
	clock := newFakeClock()
	eng := newTestEngine(&scriptedClassifier{}, nil, clock)

	tests := []struct {
		name    string
		content string
		channel domain.Channel
	}{
		{name: "empty content", content: "", channel: domain.ChannelChat},
		{name: "whitespace content", content: "   \t ", channel: domain.ChannelChat},
		{name: "unknown channel", content: "hello", channel: domain.Channel("carrier-pigeon")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.AddMessage(context.Background(), tt.content, tt.channel)

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)

			// Rejected input leaves the aggregates untouched.
			stats := eng.Stats()
			assert.Equal(t, 0, stats.TotalMessages)
			assert.Empty(t, eng.ListMessages())
		})
	}
}

func TestEngine_ClassifierFailureLeavesStateUntouched(t *testing.T) {
	clock := newFakeClock()
	eng := newTestEngine(&scriptedClassifier{err: errors.New("upstream timeout")}, nil, clock)

	_, err := eng.AddMessage(context.Background(), "my order is missing", domain.ChannelEmail)

	var classifyErr *domain.ClassificationError
	require.ErrorAs(t, err, &classifyErr)

	stats := eng.Stats()
	assert.Equal(t, 0, stats.TotalMessages)
	assert.Empty(t, eng.ListMessages())
}

func TestEngine_IngestAssignsIdentityAndOrder(t *testing.T) {
	clock := newFakeClock()
	clf := &scriptedClassifier{results: map[string]classifier.Classification{
		"thanks a lot": {Emotions: []domain.Emotion{domain.EmotionHappy}, Score: 4},
	}}
	eng := newTestEngine(clf, nil, clock)

	first, err := eng.AddMessage(context.Background(), "thanks a lot", domain.ChannelChat)
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	assert.Equal(t, []domain.Emotion{domain.EmotionHappy}, first.Emotions)
	assert.Equal(t, 4, first.Score)

	clock.Advance(time.Minute)
	second, err := eng.AddMessage(context.Background(), "anything else", domain.ChannelTicket)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, second.Timestamp.Before(first.Timestamp))

	// Listing is most recent first.
	messages := eng.ListMessages()
	require.Len(t, messages, 2)
	assert.Equal(t, second.ID, messages[0].ID)
	assert.Equal(t, first.ID, messages[1].ID)
}

func TestEngine_TimestampsMonotonicUnderClockSkew(t *testing.T) {
	clock := newFakeClock()
	eng := newTestEngine(&scriptedClassifier{}, nil, clock)

	first, err := eng.AddMessage(context.Background(), "one", domain.ChannelChat)
	require.NoError(t, err)

	// Clock jumps backwards; ingest order still wins.
	clock.Advance(-time.Hour)
	second, err := eng.AddMessage(context.Background(), "two", domain.ChannelChat)
	require.NoError(t, err)

	assert.False(t, second.Timestamp.Before(first.Timestamp))
}

func TestEngine_RuleFiresThroughIngest(t *testing.T) {
	clock := newFakeClock()
	clf := &scriptedClassifier{results: map[string]classifier.Classification{
		"this is unacceptable": angryClassification(),
	}}
	eng := newTestEngine(clf, nil, clock)

	_, err := eng.UpsertRule(context.Background(), domain.AlertRule{
		Emotion:    domain.EmotionAngry,
		Threshold:  2,
		TimeWindow: 15,
		Enabled:    true,
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := eng.AddMessage(context.Background(), "this is unacceptable", domain.ChannelChat)
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	alerts := eng.ListAlerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.EmotionAngry, alerts[0].Emotion)
	assert.Equal(t, 3, alerts[0].MessageCount)
}

func TestEngine_AlertDeliveryStatusSent(t *testing.T) {
	clock := newFakeClock()
	clf := &scriptedClassifier{results: map[string]classifier.Classification{
		"worst service ever": angryClassification(),
	}}
	notifier := newRecordingNotifier(nil)
	eng := newTestEngine(clf, notifier, clock)

	_, err := eng.UpsertRule(context.Background(), domain.AlertRule{
		Emotion:    domain.EmotionAngry,
		Threshold:  1,
		TimeWindow: 15,
		Enabled:    true,
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := eng.AddMessage(context.Background(), "worst service ever", domain.ChannelChat)
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	select {
	case alert := <-notifier.alerts:
		assert.Equal(t, domain.EmotionAngry, alert.Emotion)
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was never invoked")
	}

	assert.Eventually(t, func() bool {
		alerts := eng.ListAlerts()
		return len(alerts) == 1 && alerts[0].Delivery == domain.DeliverySent
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEngine_AlertDeliveryStatusVariants(t *testing.T) {
	tests := []struct {
		name     string
		notifier notify.Notifier
		want     domain.DeliveryStatus
	}{
		{name: "failed delivery", notifier: newRecordingNotifier(errors.New("smtp refused")), want: domain.DeliveryFailed},
		{name: "disabled notifier", notifier: newRecordingNotifier(notify.ErrDisabled), want: domain.DeliverySkipped},
		{name: "no notifier", notifier: nil, want: domain.DeliverySkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			clf := &scriptedClassifier{results: map[string]classifier.Classification{
				"worst service ever": angryClassification(),
			}}
			eng := newTestEngine(clf, tt.notifier, clock)

			_, err := eng.UpsertRule(context.Background(), domain.AlertRule{
				Emotion:    domain.EmotionAngry,
				Threshold:  1,
				TimeWindow: 15,
				Enabled:    true,
			})
			require.NoError(t, err)

			for i := 0; i < 2; i++ {
				_, err := eng.AddMessage(context.Background(), "worst service ever", domain.ChannelChat)
				require.NoError(t, err)
				clock.Advance(time.Minute)
			}

			assert.Eventually(t, func() bool {
				alerts := eng.ListAlerts()
				return len(alerts) == 1 && alerts[0].Delivery == tt.want
			}, 2*time.Second, 10*time.Millisecond)
		})
	}
}

func TestEngine_UpsertRuleValidates(t *testing.T) {
	clock := newFakeClock()
	eng := newTestEngine(&scriptedClassifier{}, nil, clock)

	tests := []struct {
		name string
		rule domain.AlertRule
	}{
		{name: "unknown emotion", rule: domain.AlertRule{Emotion: "melancholy", Threshold: 2, TimeWindow: 15}},
		{name: "threshold too low", rule: domain.AlertRule{Emotion: domain.EmotionAngry, Threshold: 0, TimeWindow: 15}},
		{name: "threshold too high", rule: domain.AlertRule{Emotion: domain.EmotionAngry, Threshold: 51, TimeWindow: 15}},
		{name: "window too short", rule: domain.AlertRule{Emotion: domain.EmotionAngry, Threshold: 2, TimeWindow: 4}},
		{name: "window too long", rule: domain.AlertRule{Emotion: domain.EmotionAngry, Threshold: 2, TimeWindow: 121}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.rule.Enabled = true
			_, err := eng.UpsertRule(context.Background(), tt.rule)

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}

	assert.Empty(t, eng.ListRules())
}

func TestEngine_DeleteRule(t *testing.T) {
	clock := newFakeClock()
	eng := newTestEngine(&scriptedClassifier{}, nil, clock)

	rule, err := eng.UpsertRule(context.Background(), domain.AlertRule{
		Emotion:    domain.EmotionFrustrated,
		Threshold:  3,
		TimeWindow: 30,
		Enabled:    true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, rule.ID)

	require.NoError(t, eng.DeleteRule(context.Background(), rule.ID))
	assert.ErrorIs(t, eng.DeleteRule(context.Background(), rule.ID), ErrRuleNotFound)
	assert.Empty(t, eng.ListRules())
}

func TestEngine_AnalyzeWithoutNegativesIsInsufficientData(t *testing.T) {
	clock := newFakeClock()
	clf := &scriptedClassifier{results: map[string]classifier.Classification{
		"great support": {Emotions: []domain.Emotion{domain.EmotionHappy}, Score: 5},
	}}
	eng := newTestEngine(clf, nil, clock)

	_, err := eng.AddMessage(context.Background(), "great support", domain.ChannelChat)
	require.NoError(t, err)

	_, err = eng.Analyze(context.Background(), "")

	var insufficientErr *domain.InsufficientDataError
	require.ErrorAs(t, err, &insufficientErr)
}

func TestEngine_AnalyzeFiltersAndOrders(t *testing.T) {
	clock := newFakeClock()
	clf := &scriptedClassifier{results: map[string]classifier.Classification{
		"so confusing":  {Emotions: []domain.Emotion{domain.EmotionConfused}, Score: -1},
		"unacceptable":  angryClassification(),
		"unacceptable2": angryClassification(),
	}}
	eng := newTestEngine(clf, nil, clock)

	for _, content := range []string{"so confusing", "unacceptable", "unacceptable2"} {
		_, err := eng.AddMessage(context.Background(), content, domain.ChannelChat)
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	summary, err := eng.Analyze(context.Background(), domain.EmotionAngry)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.MessageCount)
	require.Len(t, summary.ExampleMessages, 2)
	// Most recent first.
	assert.Equal(t, "unacceptable2", summary.ExampleMessages[0].Content)
	assert.Equal(t, "unacceptable", summary.ExampleMessages[1].Content)

	_, err = eng.Analyze(context.Background(), "bored")
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
