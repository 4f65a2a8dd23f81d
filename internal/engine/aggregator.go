package engine

import (
	"math"

	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
)

// Aggregator maintains the rolling sentiment statistics incrementally:
// running sum and count for the mean, an emotion histogram, and the
// dominant emotion tracked against the current maximum. Update is O(1)
// amortized; no full rescan of history is ever needed.
//
// Aggregator is not safe for concurrent use; the owning Engine serializes
// access.
type Aggregator struct {
	total    int
	scoreSum int64

	counts    map[domain.Emotion]int
	firstSeen map[domain.Emotion]int
	seenOrder int

	dominant      domain.Emotion
	dominantCount int
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		counts:    make(map[domain.Emotion]int),
		firstSeen: make(map[domain.Emotion]int),
		dominant:  domain.EmotionNeutral,
	}
}

// Update incorporates one new message into the running totals and returns
// the updated snapshot. A message with multiple emotion tags increments
// each tag's histogram entry.
func (a *Aggregator) Update(msg *domain.Message) domain.SentimentStats {
	a.total++
	a.scoreSum += int64(msg.Score)

	for _, emotion := range msg.Emotions {
		if _, ok := a.firstSeen[emotion]; !ok {
			a.firstSeen[emotion] = a.seenOrder
			a.seenOrder++
		}
		a.counts[emotion]++
		a.promote(emotion)
	}

	return a.Snapshot()
}

// promote re-evaluates the dominant emotion after emotion's count changed.
// Ties are broken by first-seen order, which keeps the result stable and
// deterministic without rescanning the histogram.
func (a *Aggregator) promote(emotion domain.Emotion) {
	count := a.counts[emotion]
	switch {
	case count > a.dominantCount:
		a.dominant = emotion
		a.dominantCount = count
	case count == a.dominantCount && emotion != a.dominant:
		if a.firstSeen[emotion] < a.firstSeen[a.dominant] {
			a.dominant = emotion
		}
	}
}

// Snapshot returns the current aggregate without mutation. An empty history
// yields zero totals with a neutral dominant emotion.
func (a *Aggregator) Snapshot() domain.SentimentStats {
	distribution := make(map[domain.Emotion]int, len(a.counts))
	for emotion, count := range a.counts {
		distribution[emotion] = count
	}

	avg := 0.0
	if a.total > 0 {
		avg = math.Round(float64(a.scoreSum)/float64(a.total)*10) / 10
	}

	return domain.SentimentStats{
		TotalMessages:       a.total,
		AverageScore:        avg,
		DominantEmotion:     a.dominant,
		EmotionDistribution: distribution,
	}
}
