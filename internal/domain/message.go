// Package domain defines the core entities of the sentiment watchdog:
// messages, rolling statistics, alert rules, and alerts.
package domain

import "time"

// Channel identifies the support channel a message arrived on.
type Channel string

// Recognized support channels.
const (
	ChannelChat   Channel = "chat"
	ChannelEmail  Channel = "email"
	ChannelTicket Channel = "ticket"
)

// ValidChannel reports whether ch is one of the recognized channels.
func ValidChannel(ch Channel) bool {
	switch ch {
	case ChannelChat, ChannelEmail, ChannelTicket:
		return true
	default:
		return false
	}
}

// Emotion is a discrete label describing a detected affect in a message.
type Emotion string

// Recognized emotion tags.
const (
	EmotionHappy      Emotion = "happy"
	EmotionNeutral    Emotion = "neutral"
	EmotionFrustrated Emotion = "frustrated"
	EmotionAngry      Emotion = "angry"
	EmotionConfused   Emotion = "confused"
)

// Emotions lists all recognized tags in canonical order.
var Emotions = []Emotion{
	EmotionHappy,
	EmotionNeutral,
	EmotionFrustrated,
	EmotionAngry,
	EmotionConfused,
}

// ValidEmotion reports whether e is one of the recognized emotion tags.
func ValidEmotion(e Emotion) bool {
	for _, known := range Emotions {
		if e == known {
			return true
		}
	}
	return false
}

// Score bounds for sentiment classification. Sign indicates polarity,
// magnitude indicates intensity.
const (
	MinScore = -10
	MaxScore = 10
)

// Message is a single customer message with its sentiment classification.
// Immutable once created by ingest.
type Message struct {
	ID        string    `db:"id"        json:"id"`
	Content   string    `db:"content"   json:"content"`
	Channel   Channel   `db:"channel"   json:"channel"`
	Emotions  []Emotion `db:"-"         json:"emotion"`
	Score     int       `db:"score"     json:"score"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

// HasEmotion reports whether the message's emotion set contains e.
func (m *Message) HasEmotion(e Emotion) bool {
	for _, tag := range m.Emotions {
		if tag == e {
			return true
		}
	}
	return false
}

// Negative reports whether the message carries negative sentiment.
func (m *Message) Negative() bool {
	return m.Score < 0
}
