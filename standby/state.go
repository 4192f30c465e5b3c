package standby

import (
	"errors"
	"fmt"

	"github.com/sarchlab/dramctl/hostport"
)

// Errors that report misuse of a SavedState.
var (
	ErrNoSavedState        = errors.New("resume without a saved state")
	ErrStateConsumed       = errors.New("saved state already consumed")
	ErrForeignState        = errors.New("saved state belongs to another suspend")
	ErrSnapshotOutstanding = errors.New("a saved state is still outstanding")
)

// SavedState is what Suspend takes away from the hardware and Resume puts
// back. It can be resumed exactly once.
type SavedState struct {
	ClockGating uint32
	PortWords   [len(hostport.PortIndexSet)]uint32

	baseline    uint32
	hasBaseline bool
	consumed    bool
}

// Consumed tells if the state was already handed to Resume.
func (s *SavedState) Consumed() bool {
	return s.consumed
}

// Baseline returns the checksum taken at suspend, if any.
func (s *SavedState) Baseline() (uint32, bool) {
	return s.baseline, s.hasBaseline
}

func (s *SavedState) String() string {
	return fmt.Sprintf("clock gating 0x%08x, %d port words",
		s.ClockGating, len(s.PortWords))
}
