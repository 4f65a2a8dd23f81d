package classifier

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
	"github.com/jonesrussell/sentiment-watchdog/internal/logging"
)

// Limited wraps a Classifier with rate limiting and a per-call timeout.
// The classifier call is treated as potentially slow or unreliable: any
// limiter or classification failure surfaces as a domain.ClassificationError
// so ingest can abort atomically instead of hanging.
type Limited struct {
	inner   Classifier
	limiter *rate.Limiter
	timeout time.Duration
	logger  logging.Logger
}

// NewLimited creates a rate-limited classifier.
// rps: calls per second; burst: maximum burst size.
func NewLimited(inner Classifier, rps, burst int, timeout time.Duration, logger logging.Logger) *Limited {
	if rps <= 0 {
		rps = 50
	}
	if burst <= 0 {
		burst = rps
	}
	return &Limited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		timeout: timeout,
		logger:  logger,
	}
}

// Classify waits for the rate limiter, then invokes the wrapped classifier
// under the configured timeout.
func (l *Limited) Classify(ctx context.Context, text string) (Classification, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	if err := l.limiter.Wait(ctx); err != nil {
		l.logger.Warn("classifier rate limiter wait failed", "error", err)
		return Classification{}, domain.NewClassificationError(err)
	}

	result, err := l.inner.Classify(ctx, text)
	if err != nil {
		l.logger.Error("classification failed", "error", err)
		return Classification{}, domain.NewClassificationError(err)
	}

	return result, nil
}
