package classifier

import (
	"context"
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
)

// Per-emotion keyword buckets. A hit on any keyword tags the message with
// that emotion; the signed weights below turn hits into a sentiment score.
var keywordBuckets = map[domain.Emotion][]string{
	domain.EmotionHappy: {
		"thank", "thanks", "great", "awesome", "love it", "perfect",
		"excellent", "amazing", "appreciate", "fantastic", "works now",
		"resolved", "brilliant", "happy with",
	},
	domain.EmotionFrustrated: {
		"frustrated", "frustrating", "annoying", "still not working",
		"still broken", "tired of", "fed up", "ridiculous", "takes forever",
		"so slow", "third time", "every time", "over and over",
	},
	domain.EmotionAngry: {
		"angry", "furious", "unacceptable", "terrible", "worst", "hate",
		"refund", "cancel my", "outraged", "scam", "disgusted", "awful",
		"never again",
	},
	domain.EmotionConfused: {
		"confused", "confusing", "don't understand", "do not understand",
		"not sure how", "how do i", "unclear", "what does", "makes no sense",
		"where do i", "can't figure out", "no idea",
	},
}

// Signed per-hit weights by emotion. Positive weights indicate favorable
// sentiment.
var emotionWeights = map[domain.Emotion]int{
	domain.EmotionHappy:      3,
	domain.EmotionFrustrated: -2,
	domain.EmotionAngry:      -3,
	domain.EmotionConfused:   -1,
}

const exclamationBoost = 1

// KeywordClassifier matches emotion keywords with a single Aho-Corasick
// pass over the lowercased text. It is fully deterministic, which keeps
// alert-firing scenarios reproducible in tests.
type KeywordClassifier struct {
	mu        sync.RWMutex
	matcher   *ahocorasick.Matcher
	keywords  []string
	kwEmotion map[string]domain.Emotion
}

// NewKeywordClassifier builds the Aho-Corasick automaton from the emotion
// keyword buckets.
func NewKeywordClassifier() *KeywordClassifier {
	c := &KeywordClassifier{
		kwEmotion: make(map[string]domain.Emotion),
	}
	c.rebuildLocked()
	return c
}

// rebuildLocked constructs the automaton. Must be called with c.mu held,
// except from the constructor where the classifier is not yet shared.
func (c *KeywordClassifier) rebuildLocked() {
	c.keywords = c.keywords[:0]
	for _, emotion := range domain.Emotions {
		for _, kw := range keywordBuckets[emotion] {
			normalized := strings.ToLower(strings.TrimSpace(kw))
			if normalized == "" {
				continue
			}
			c.keywords = append(c.keywords, normalized)
			c.kwEmotion[normalized] = emotion
		}
	}
	c.matcher = ahocorasick.NewStringMatcher(c.keywords)
}

// Classify tags text with every emotion whose bucket matched and derives
// the signed score from the weighted hit counts. Text with no matches is
// neutral with score 0.
func (c *KeywordClassifier) Classify(_ context.Context, text string) (Classification, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	normalized := strings.ToLower(text)
	hits := make(map[domain.Emotion]int)
	for _, idx := range c.matcher.Match([]byte(normalized)) {
		emotion := c.kwEmotion[c.keywords[idx]]
		hits[emotion]++
	}

	score := 0
	for emotion, count := range hits {
		score += emotionWeights[emotion] * count
	}

	// Exclamation marks amplify whatever polarity the words carry.
	if exclamations := strings.Count(text, "!"); exclamations > 0 {
		switch {
		case score > 0:
			score += exclamations * exclamationBoost
		case score < 0:
			score -= exclamations * exclamationBoost
		}
	}

	if score < domain.MinScore {
		score = domain.MinScore
	}
	if score > domain.MaxScore {
		score = domain.MaxScore
	}

	// Canonical order keeps the emotion set deterministic across runs.
	emotions := make([]domain.Emotion, 0, len(hits))
	for _, emotion := range domain.Emotions {
		if hits[emotion] > 0 {
			emotions = append(emotions, emotion)
		}
	}
	if len(emotions) == 0 {
		emotions = append(emotions, domain.EmotionNeutral)
	}

	return Classification{Emotions: emotions, Score: score}, nil
}
