package dramc

import (
	"github.com/sarchlab/dramctl/hostport"
	"github.com/sarchlab/dramctl/regs"
	"github.com/sarchlab/dramctl/timing"
)

// Builder can build controllers.
type Builder struct {
	bus      regs.Bus
	delayer  timing.Delayer
	maxPolls int
	interval uint32
}

// MakeBuilder creates a builder with default configuration.
func MakeBuilder() Builder {
	return Builder{
		maxPolls: timing.DefaultMaxPolls,
	}
}

// WithBus sets the register bus the controller drives.
func (b Builder) WithBus(bus regs.Bus) Builder {
	b.bus = bus
	return b
}

// WithDelayer sets the busy-wait primitive.
func (b Builder) WithDelayer(d timing.Delayer) Builder {
	b.delayer = d
	return b
}

// WithMaxPolls bounds every status poll.
func (b Builder) WithMaxPolls(n int) Builder {
	b.maxPolls = n
	return b
}

// WithPollInterval sets the delay loops spent between two polls.
func (b Builder) WithPollInterval(loops uint32) Builder {
	b.interval = loops
	return b
}

// Build creates a controller in the normal state.
func (b Builder) Build(name string) *Controller {
	if b.bus == nil {
		panic("dramc: bus is not set")
	}

	if b.delayer == nil {
		b.delayer = &timing.CountingDelayer{}
	}

	poller := &timing.Poller{
		Delayer:  b.delayer,
		MaxPolls: b.maxPolls,
		Interval: b.interval,
	}

	return &Controller{
		name:    name,
		bus:     b.bus,
		delayer: b.delayer,
		poller:  poller,
		gate:    hostport.NewGate(b.bus),
		state:   StateNormal,
	}
}
