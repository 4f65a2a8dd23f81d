// Package classifier provides sentiment classification for customer
// messages. The Classifier interface is the boundary to the (potentially
// slow or unreliable) classification capability; the keyword implementation
// is the deterministic in-process default.
package classifier

import (
	"context"

	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
)

// Classification is the result of classifying one piece of text: the set
// of detected emotion tags and a signed intensity score.
type Classification struct {
	Emotions []domain.Emotion
	Score    int
}

// Classifier classifies message text. Implementations must be deterministic
// for identical input; callers bound the call with a context deadline.
type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}
