package timing

import (
	"errors"
	"fmt"
)

// ErrHardwareTimeout is reported when a status bit does not reach the
// expected state within the poll budget.
var ErrHardwareTimeout = errors.New("hardware timeout")

// DefaultMaxPolls bounds every hardware poll unless configured otherwise.
const DefaultMaxPolls = 1 << 20

// TimeoutError names the condition that never became true.
type TimeoutError struct {
	What  string
	Polls int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("hardware timeout: %s not reached after %d polls",
		e.What, e.Polls)
}

// Unwrap makes errors.Is(err, ErrHardwareTimeout) hold.
func (e *TimeoutError) Unwrap() error {
	return ErrHardwareTimeout
}

// A Poller waits for hardware conditions with a bounded number of polls.
type Poller struct {
	Delayer  Delayer
	MaxPolls int

	// Interval is the number of delay loops between two polls. Zero polls
	// back-to-back.
	Interval uint32
}

// NewPoller creates a Poller with the default poll budget.
func NewPoller(d Delayer) *Poller {
	return &Poller{Delayer: d, MaxPolls: DefaultMaxPolls}
}

// WaitUntil evaluates cond until it returns true. It returns a *TimeoutError
// if the budget runs out first.
func (p *Poller) WaitUntil(what string, cond func() bool) error {
	maxPolls := p.MaxPolls
	if maxPolls <= 0 {
		maxPolls = DefaultMaxPolls
	}

	for i := 0; i < maxPolls; i++ {
		if cond() {
			return nil
		}

		if p.Interval > 0 && p.Delayer != nil {
			p.Delayer.Delay(p.Interval)
		}
	}

	return &TimeoutError{What: what, Polls: maxPolls}
}
