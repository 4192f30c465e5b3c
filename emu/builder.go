package emu

import (
	"github.com/sarchlab/dramctl/hostport"
	"github.com/sarchlab/dramctl/memory"
	"github.com/sarchlab/dramctl/regbank"
	"github.com/sarchlab/dramctl/regs"
)

// Register window covered by the emulated bank.
const (
	bankBase regs.Addr = 0x01c00000
	bankSize uint64    = 0x30000
)

// Default DRAM window of the emulated board.
const (
	DefaultDRAMBase uint64 = 0x40000000
	DefaultDRAMSize uint64 = 32 * memory.MB
)

// Builder can build emulated platforms.
type Builder struct {
	busyPolls  int
	initPolls  int
	padPolls   int
	stuckBusy  bool
	dramBase   uint64
	dramSize   uint64
	scanScript []bool
}

// MakeBuilder creates a builder with default configuration.
func MakeBuilder() Builder {
	return Builder{
		busyPolls: 2,
		initPolls: 4,
		padPolls:  3,
		dramBase:  DefaultDRAMBase,
		dramSize:  DefaultDRAMSize,
	}
}

// WithBusyPolls sets how many reads see the DCR busy bit before it clears.
func (b Builder) WithBusyPolls(n int) Builder {
	b.busyPolls = n
	return b
}

// WithInitPolls sets how many reads see the CCR init bit before it clears.
func (b Builder) WithInitPolls(n int) Builder {
	b.initPolls = n
	return b
}

// WithPadPolls sets how many reads pass before the pad handshake answers.
func (b Builder) WithPadPolls(n int) Builder {
	b.padPolls = n
	return b
}

// WithStuckBusy makes the DCR busy bit never clear.
func (b Builder) WithStuckBusy() Builder {
	b.stuckBusy = true
	return b
}

// WithDRAM sets the emulated DRAM window.
func (b Builder) WithDRAM(base, size uint64) Builder {
	b.dramBase = base
	b.dramSize = size

	return b
}

// WithScanResults scripts the read-pipe scan outcomes. Scans beyond the
// script pass.
func (b Builder) WithScanResults(results ...bool) Builder {
	b.scanScript = append([]bool(nil), results...)
	return b
}

// WithFailingScans makes the first k read-pipe scans fail.
func (b Builder) WithFailingScans(k int) Builder {
	script := make([]bool, k)
	return b.WithScanResults(script...)
}

// Build creates a platform with the controller in its booted state.
func (b Builder) Build(name string) *Platform {
	bank := regbank.NewBank(name+".Regs", bankBase, bankSize)
	p := &Platform{
		name:    name,
		Bank:    bank,
		DRAM:    memory.NewStorageAt(b.dramBase, b.dramSize),
		Scanner: &ScriptedScanner{script: b.scanScript},
	}

	b.loadResetValues(bank)
	b.attachBehaviors(bank)

	return p
}

func (b Builder) attachBehaviors(bank *regbank.Bank) {
	if b.stuckBusy {
		bank.AddBehavior(regs.DCR, &regbank.Stuck{
			Mask:  regs.DCRBusy.Mask(),
			Value: regs.DCRBusy.Mask(),
		})
	} else {
		bank.AddBehavior(regs.DCR, &regbank.SelfClearing{
			Mask:  regs.DCRBusy.Mask(),
			After: b.busyPolls,
		})
	}

	bank.AddBehavior(regs.CCR, &regbank.SelfClearing{
		Mask:  regs.CCRInit.Mask(),
		After: b.initPolls,
	})

	bank.AddBehavior(regs.PPWRSCTL, &regbank.Handshake{
		Ack:          regs.PadAck,
		SetPattern:   regs.PadHoldPattern,
		ClearPattern: regs.PadReleasePattern,
		After:        b.padPolls,
	})
}

func (b Builder) loadResetValues(bank *regbank.Bank) {
	values := map[regs.Addr]uint32{
		regs.CCR:          0x00000000,
		regs.DCR:          0x000062b4,
		regs.IOCR:         0x00cc0000,
		regs.DRR:          0x0000186a,
		regs.TPR0:         0x42d899b7,
		regs.TPR1:         0x0000a090,
		regs.TPR2:         0x00022a00,
		regs.ZQCR0:        0x07b00000,
		regs.ZQSR:         0x0003ffe7,
		regs.IDCR:         0x00000000,
		regs.MR:           0x00001a50,
		regs.EMR:          0x00000004,
		regs.EMR2:         0x00000010,
		regs.EMR3:         0x00000000,
		regs.MCR:          0x00016ffc,
		regs.PPWRSCTL:     regs.PadReleasePattern,
		regs.CFSR:         0xffffffff,
		regs.CCMPLL5:      0xa1009911,
		regs.CCMAHBGate0:  0x0000c044,
		regs.CCMSDRAMGate: 0x000003ff,
		regs.DLLCR(0):     regs.DLLOpen.Mask(),
	}

	codes := [regs.NumSlaveDLLs]uint32{0x8, 0x7, 0x7, 0x8}
	for i, code := range codes {
		values[regs.DLLCR(i+1)] = regs.DLLDelayCode.MustSet(regs.DLLOpen.Mask(),
			code)
	}

	for p, word := range hostport.DefaultTable {
		values[regs.HPCR(p)] = word
	}

	for a, v := range values {
		bank.Poke(a, v)
	}
}
