package domain

// SentimentStats is the derived rolling aggregate over the full message
// history. Recomputed incrementally on each ingest, never persisted
// independently.
//
// Invariant: the emotion distribution values sum to at least TotalMessages,
// with equality iff every message carries exactly one emotion tag.
type SentimentStats struct {
	TotalMessages       int             `json:"totalMessages"`
	AverageScore        float64         `json:"averageScore"` // rounded to one decimal
	DominantEmotion     Emotion         `json:"dominantEmotion"`
	EmotionDistribution map[Emotion]int `json:"emotionDistribution"`
}

// Summary is the output of root-cause analysis over negative messages:
// a short narrative plus the supporting examples it was drawn from.
type Summary struct {
	Text            string    `json:"summary"`
	ExampleMessages []Message `json:"example_messages"`
	MessageCount    int       `json:"message_count"`
}
