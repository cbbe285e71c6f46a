package httpclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// Attempt performs a single request attempt. It is expected to bound itself
// with the current Settings timeout, as the dispatcher does.
type Attempt func(ctx context.Context) (*Response, error)

// RetryPolicy runs an Attempt until it succeeds, fails with a non-transient
// error, or Settings.Retries attempts have failed transiently.
//
// After every transient failure the shared Settings timeout grows by
// Settings.TimeoutIncrement, so attempt n runs with
// timeout + (n-1)*increment. The growth is not reset between calls.
type RetryPolicy struct {
	classifier TransientClassifier
	logger     zerolog.Logger
	display    Display
	metrics    *metrics
	attrs      []attribute.KeyValue
}

// NewRetryPolicy creates a RetryPolicy. A nil classifier selects
// DefaultTransientClassifier and a nil display discards progress output.
func NewRetryPolicy(classifier TransientClassifier, logger zerolog.Logger, display Display) *RetryPolicy {
	if classifier == nil {
		classifier = DefaultTransientClassifier
	}
	if display == nil {
		display = DiscardDisplay{}
	}
	return &RetryPolicy{
		classifier: classifier,
		logger:     logger,
		display:    display,
	}
}

// Do runs op under the policy.
//
// When every attempt failed transiently it returns an error matching
// ErrNoResponse. Non-transient errors and cancellation of ctx are returned
// unchanged after the first occurrence.
func (p *RetryPolicy) Do(ctx context.Context, settings *Settings, op Attempt) (*Response, error) {
	maxTries := settings.Retries()
	if maxTries <= 0 {
		p.exhausted(ctx, 0, nil)
		return nil, ErrNoResponse
	}

	var (
		attempt   int
		transient bool
		startTime = time.Now()
	)

	resp, err := backoff.Retry(ctx, func() (*Response, error) {
		attempt++
		transient = false

		resp, err := op(ctx)
		if err == nil {
			return resp, nil
		}

		if ctx.Err() != nil || !p.classifier(err) {
			return nil, backoff.Permanent(err)
		}

		transient = true
		next := settings.escalate()

		p.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", maxTries).
			Dur("next_timeout", next).
			Msg("transient request failure")
		p.display.Print(fmt.Sprintf("Retry %d: %v", attempt, err), StyleFailed)
		p.metrics.recordRetryAttempt(ctx, p.attrs, attempt)

		return nil, err
	},
		backoff.WithBackOff(&settingsBackOff{settings: settings}),
		backoff.WithMaxTries(uint(maxTries)),
		backoff.WithMaxElapsedTime(0),
	)

	p.metrics.recordRetryDuration(ctx, p.attrs, time.Since(startTime))

	if err == nil {
		return resp, nil
	}

	// The last attempt returns its error as is, Permanent wrapper included.
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}

	if transient && ctx.Err() == nil {
		p.exhausted(ctx, attempt, err)
		return nil, fmt.Errorf("%w: %w", ErrNoResponse, err)
	}

	return nil, err
}

func (p *RetryPolicy) exhausted(ctx context.Context, attempts int, lastErr error) {
	p.logger.Error().
		Err(lastErr).
		Int("attempts", attempts).
		Msg("request failed after maximum retries")
	p.display.Print("Request failed after maximum retries.", StyleFailed)
	p.metrics.recordRetryExhausted(ctx, p.attrs)
}

// settingsBackOff waits Settings.Delay between attempts. The delay is read
// when each wait starts, so changes to the shared Settings apply immediately.
type settingsBackOff struct {
	settings *Settings
}

var _ backoff.BackOff = (*settingsBackOff)(nil)

func (b *settingsBackOff) NextBackOff() time.Duration {
	return b.settings.Delay()
}

func (b *settingsBackOff) Reset() {}
