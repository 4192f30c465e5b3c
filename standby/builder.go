package standby

import (
	"github.com/sarchlab/dramctl/dramc"
	"github.com/sarchlab/dramctl/integrity"
)

// Builder can build suspend sequencers.
type Builder struct {
	ctrl    *dramc.Controller
	checker *integrity.Checker
}

// MakeBuilder creates a builder with default configuration.
func MakeBuilder() Builder {
	return Builder{}
}

// WithController sets the controller the sequencer drives.
func (b Builder) WithController(ctrl *dramc.Controller) Builder {
	b.ctrl = ctrl
	return b
}

// WithIntegrityChecker enables the DRAM checksum around suspend.
func (b Builder) WithIntegrityChecker(c *integrity.Checker) Builder {
	b.checker = c
	return b
}

// Build creates a suspend sequencer.
func (b Builder) Build(name string) *Sequencer {
	if b.ctrl == nil {
		panic("standby: controller is not set")
	}

	return &Sequencer{
		name:    name,
		ctrl:    b.ctrl,
		checker: b.checker,
	}
}
