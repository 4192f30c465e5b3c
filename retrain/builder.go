package retrain

import (
	"github.com/sarchlab/dramctl/dramc"
	"github.com/sarchlab/dramctl/hostport"
	"github.com/sarchlab/dramctl/timing"
)

// Builder can build retraining sequencers.
type Builder struct {
	ctrl     *dramc.Controller
	scanner  ReadPipeScanner
	policy   Policy
	table    hostport.Table
	loopFreq timing.Freq
}

// MakeBuilder creates a builder with default configuration.
func MakeBuilder() Builder {
	return Builder{
		policy:   DefaultPolicy(),
		table:    hostport.DefaultTable,
		loopFreq: 24 * timing.MHz,
	}
}

// WithController sets the controller the sequencer drives.
func (b Builder) WithController(ctrl *dramc.Controller) Builder {
	b.ctrl = ctrl
	return b
}

// WithScanner sets the read-pipe calibration routine.
func (b Builder) WithScanner(s ReadPipeScanner) Builder {
	b.scanner = s
	return b
}

// WithPolicy sets the retry bound and backoff.
func (b Builder) WithPolicy(p Policy) Builder {
	b.policy = p
	return b
}

// WithHostPortTable sets the host port configuration applied after every
// attempt.
func (b Builder) WithHostPortTable(t hostport.Table) Builder {
	b.table = t
	return b
}

// WithLoopFreq sets the delay-loop rate used to turn backoff durations into
// delay loops.
func (b Builder) WithLoopFreq(f timing.Freq) Builder {
	b.loopFreq = f
	return b
}

// Build creates a retraining sequencer.
func (b Builder) Build(name string) *Sequencer {
	if b.ctrl == nil {
		panic("retrain: controller is not set")
	}

	if b.scanner == nil {
		panic("retrain: read-pipe scanner is not set")
	}

	return &Sequencer{
		name:     name,
		ctrl:     b.ctrl,
		scanner:  b.scanner,
		policy:   b.policy,
		table:    b.table,
		loopFreq: b.loopFreq,
	}
}
