package retrain

import (
	"errors"
	"fmt"
	"time"

	"github.com/jpillora/backoff"
)

// DefaultMaxAttempts bounds the retraining loop when no policy is given.
const DefaultMaxAttempts = 8

// ErrRetrainingExhausted is returned when every attempt failed the scan.
var ErrRetrainingExhausted = errors.New("retraining attempts exhausted")

// ExhaustedError reports a retraining run that never passed the scan.
type ExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *ExhaustedError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("%v after %d attempts: %v",
			ErrRetrainingExhausted, e.Attempts, e.LastErr)
	}

	return fmt.Sprintf("%v after %d attempts", ErrRetrainingExhausted, e.Attempts)
}

// Unwrap returns the sentinel error.
func (e *ExhaustedError) Unwrap() error {
	return ErrRetrainingExhausted
}

// Policy bounds the retraining loop.
type Policy struct {
	MaxAttempts int

	// Backoff gives the wait between two failed attempts. A nil Backoff
	// retries immediately.
	Backoff *backoff.Backoff
}

// DefaultPolicy returns the default attempt bound with a short exponential
// backoff.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Backoff: &backoff.Backoff{
			Min:    100 * time.Microsecond,
			Max:    10 * time.Millisecond,
			Factor: 2,
		},
	}
}

func (p Policy) attempts() int {
	if p.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}

	return p.MaxAttempts
}

func (p Policy) next() time.Duration {
	if p.Backoff == nil {
		return 0
	}

	return p.Backoff.Duration()
}

func (p Policy) reset() {
	if p.Backoff != nil {
		p.Backoff.Reset()
	}
}
