// Package hostport gates and configures the bus-master host ports of the
// DRAM controller.
package hostport

import (
	"errors"
	"fmt"

	"github.com/sarchlab/dramctl/regs"
)

var (
	// ErrInvalidPort is returned for port indices outside 0..31. The
	// register set is left untouched.
	ErrInvalidPort = errors.New("invalid host port")

	// ErrInvalidConfig is returned when a configuration value is out of
	// range.
	ErrInvalidConfig = errors.New("invalid host port configuration")
)

// Limits of the configurable fields.
const (
	MaxPriority   = 3
	MaxWaitCycles = 15
	MaxCmdCount   = 3
)

// PortIndexSet is the set of ports gated off before the controller enters
// self-refresh and saved across suspend. Ports missing from it are not wired
// to active masters on this SoC.
var PortIndexSet = [...]int{
	0, 1, 2, 3, 4, 5, 6, 7,
	16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27,
	29, 31,
}

// RestoreRange is the contiguous range re-enabled after self-refresh exit.
// It intentionally differs from PortIndexSet.
var RestoreRange = [2]int{0, 30}

// Config is the arbitration setup of a port.
type Config struct {
	Priority   uint32
	WaitCycles uint32
	CmdCount   uint32
}

// Validate checks the field ranges.
func (c Config) Validate() error {
	if c.Priority > MaxPriority || c.WaitCycles > MaxWaitCycles ||
		c.CmdCount > MaxCmdCount {
		return fmt.Errorf("%w: priority %d, wait %d, cmd %d",
			ErrInvalidConfig, c.Priority, c.WaitCycles, c.CmdCount)
	}

	return nil
}

// Status is the decoded state of a gate register.
type Status struct {
	Enabled bool
	Config
	Raw uint32
}

// Gate drives the per-port gate registers.
type Gate struct {
	bus regs.Bus
}

// NewGate creates a Gate on bus.
func NewGate(bus regs.Bus) *Gate {
	return &Gate{bus: bus}
}

// ValidPort reports ErrInvalidPort for indices outside 0..31.
func ValidPort(port int) error {
	if port < 0 || port >= regs.NumHostPorts {
		return fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}

	return nil
}

// SetEnabled sets or clears the enable bit of a port. Other fields are kept.
func (g *Gate) SetEnabled(port int, on bool) error {
	if err := ValidPort(port); err != nil {
		return err
	}

	regs.Modify(g.bus, regs.HPCR(port), func(v uint32) uint32 {
		return regs.HPCREnable.Assign(v, on)
	})

	return nil
}

// Configure rewrites the priority, wait-cycle and command-count fields. The
// enable bit and all other bits are preserved.
func (g *Gate) Configure(port int, cfg Config) error {
	if err := ValidPort(port); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	regs.Modify(g.bus, regs.HPCR(port), func(v uint32) uint32 {
		v = regs.HPCRPriority.MustSet(v, cfg.Priority)
		v = regs.HPCRWait.MustSet(v, cfg.WaitCycles)
		v = regs.HPCRCmdCount.MustSet(v, cfg.CmdCount)

		return v
	})

	return nil
}

// Read decodes the gate register of a port.
func (g *Gate) Read(port int) (Status, error) {
	if err := ValidPort(port); err != nil {
		return Status{}, err
	}

	v := g.bus.Read(regs.HPCR(port))

	return Status{
		Enabled: regs.HPCREnable.IsSet(v),
		Config: Config{
			Priority:   regs.HPCRPriority.Get(v),
			WaitCycles: regs.HPCRWait.Get(v),
			CmdCount:   regs.HPCRCmdCount.Get(v),
		},
		Raw: v,
	}, nil
}

// FIFOEmpty tells if the AHB FIFO of a port is empty.
func (g *Gate) FIFOEmpty(port int) (bool, error) {
	if err := ValidPort(port); err != nil {
		return false, err
	}

	return regs.Bit(port).IsSet(g.bus.Read(regs.CFSR)), nil
}

// DisableSet clears the enable bit of every port in ports.
func (g *Gate) DisableSet(ports []int) error {
	for _, p := range ports {
		if err := g.SetEnabled(p, false); err != nil {
			return err
		}
	}

	return nil
}

// EnableRange sets the enable bit of every port in [first, last].
func (g *Gate) EnableRange(first, last int) error {
	for p := first; p <= last; p++ {
		if err := g.SetEnabled(p, true); err != nil {
			return err
		}
	}

	return nil
}

// Capture reads the raw gate words of ports, in order.
func (g *Gate) Capture(ports []int) ([]uint32, error) {
	words := make([]uint32, 0, len(ports))

	for _, p := range ports {
		if err := ValidPort(p); err != nil {
			return nil, err
		}

		words = append(words, g.bus.Read(regs.HPCR(p)))
	}

	return words, nil
}

// Restore writes raw gate words back, bit-exact.
func (g *Gate) Restore(ports []int, words []uint32) error {
	if len(ports) != len(words) {
		return fmt.Errorf("%w: %d ports, %d words",
			ErrInvalidConfig, len(ports), len(words))
	}

	for i, p := range ports {
		if err := ValidPort(p); err != nil {
			return err
		}

		g.bus.Write(regs.HPCR(p), words[i])
	}

	return nil
}

// Zero writes 0 to the gate register of every port in ports.
func (g *Gate) Zero(ports []int) error {
	for _, p := range ports {
		if err := ValidPort(p); err != nil {
			return err
		}

		g.bus.Write(regs.HPCR(p), 0)
	}

	return nil
}
