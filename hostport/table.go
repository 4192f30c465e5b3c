package hostport

import "github.com/sarchlab/dramctl/regs"

// Table holds raw gate words for all 32 ports.
type Table [regs.NumHostPorts]uint32

// DefaultTable is the A20 arbitration setup applied after retraining.
var DefaultTable = Table{
	0x00000301, 0x00000301, 0x00000301, 0x00000301,
	0x00000301, 0x00000301, 0x00000301, 0x00000301,
	0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00000000, 0x00000000, 0x00000000, 0x00000000,
	0x00001031, 0x00001031, 0x00000735, 0x00001035,
	0x00001035, 0x00000731, 0x00001031, 0x00000735,
	0x00001035, 0x00001031, 0x00000731, 0x00001035,
	0x00000001, 0x00001031, 0x00000000, 0x00001031,
}

// ApplyTable writes the full-range port configuration.
func (g *Gate) ApplyTable(t Table) {
	for p, word := range t {
		g.bus.Write(regs.HPCR(p), word)
	}
}

// CaptureTable reads all 32 gate words.
func (g *Gate) CaptureTable() Table {
	var t Table
	for p := range t {
		t[p] = g.bus.Read(regs.HPCR(p))
	}

	return t
}
