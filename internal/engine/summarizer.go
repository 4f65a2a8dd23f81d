package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
	"github.com/jonesrussell/sentiment-watchdog/internal/logging"
)

// maxExampleMessages is the number of representative negative messages
// attached to a summary, most recent first.
const maxExampleMessages = 3

// InsightProvider is the external text-understanding capability that turns
// a set of negative messages into a narrative. Implementations may call an
// LLM or other analysis service; failures fall back to the built-in
// template narrative.
type InsightProvider interface {
	Describe(ctx context.Context, messages []domain.Message) (string, error)
}

// Summarizer produces root-cause summaries over negative-score messages.
// Its own responsibility is selecting the representative example set; the
// narrative itself is delegated.
type Summarizer struct {
	insight InsightProvider
	logger  logging.Logger
}

// NewSummarizer creates a summarizer. insight may be nil, in which case the
// template narrative is always used.
func NewSummarizer(insight InsightProvider, logger logging.Logger) *Summarizer {
	return &Summarizer{insight: insight, logger: logger}
}

// Summarize builds a Summary from negative messages ordered most recent
// first. Fails with InsufficientDataError when there is nothing to analyze;
// no partial summary is produced.
func (s *Summarizer) Summarize(ctx context.Context, negatives []domain.Message) (domain.Summary, error) {
	if len(negatives) == 0 {
		return domain.Summary{}, domain.NewInsufficientDataError("no negative messages to analyze")
	}

	examples := negatives
	if len(examples) > maxExampleMessages {
		examples = examples[:maxExampleMessages]
	}

	text := s.narrative(ctx, negatives)

	return domain.Summary{
		Text:            text,
		ExampleMessages: examples,
		MessageCount:    len(negatives),
	}, nil
}

func (s *Summarizer) narrative(ctx context.Context, negatives []domain.Message) string {
	if s.insight != nil {
		text, err := s.insight.Describe(ctx, negatives)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		if err != nil {
			s.logger.Warn("insight provider failed, using template narrative", "error", err)
		}
	}
	return templateNarrative(negatives)
}

// templateNarrative is the deterministic fallback: it names the most common
// negative emotion and the busiest channel.
func templateNarrative(negatives []domain.Message) string {
	emotionCounts := make(map[domain.Emotion]int)
	channelCounts := make(map[domain.Channel]int)
	for i := range negatives {
		msg := &negatives[i]
		for _, emotion := range msg.Emotions {
			emotionCounts[emotion]++
		}
		channelCounts[msg.Channel]++
	}

	topEmotion := domain.EmotionNeutral
	topEmotionCount := 0
	for _, emotion := range domain.Emotions {
		if emotionCounts[emotion] > topEmotionCount {
			topEmotion = emotion
			topEmotionCount = emotionCounts[emotion]
		}
	}

	topChannel := domain.ChannelChat
	topChannelCount := 0
	for _, channel := range []domain.Channel{domain.ChannelChat, domain.ChannelEmail, domain.ChannelTicket} {
		if channelCounts[channel] > topChannelCount {
			topChannel = channel
			topChannelCount = channelCounts[channel]
		}
	}

	return fmt.Sprintf(
		"%d negative messages analyzed; customers are predominantly %s, with most reports arriving via %s.",
		len(negatives), topEmotion, topChannel,
	)
}
