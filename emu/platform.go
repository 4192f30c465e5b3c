// Package emu emulates an A20-class DRAM controller so the sequencers can be
// driven without hardware.
package emu

import (
	"encoding/binary"
	"math/rand"

	"github.com/sarchlab/dramctl/memory"
	"github.com/sarchlab/dramctl/regbank"
)

// Platform is an emulated board: controller registers, DRAM contents and the
// read-pipe calibration routine.
type Platform struct {
	name string

	Bank    *regbank.Bank
	DRAM    *memory.Storage
	Scanner *ScriptedScanner
}

// Name returns the name of the platform.
func (p *Platform) Name() string {
	return p.name
}

// FillDRAM writes size bytes of pseudo-random data from the start of the
// DRAM window.
func (p *Platform) FillDRAM(seed int64, size uint64) error {
	rng := rand.New(rand.NewSource(seed))
	buf := make([]byte, size)

	for i := uint64(0); i+4 <= size; i += 4 {
		binary.LittleEndian.PutUint32(buf[i:], rng.Uint32())
	}

	return p.DRAM.Write(p.DRAM.Base(), buf)
}

// CorruptDRAM flips every bit of the word at addr.
func (p *Platform) CorruptDRAM(addr uint64) error {
	v, err := p.DRAM.Read32(addr)
	if err != nil {
		return err
	}

	return p.DRAM.Write32(addr, ^v)
}

// ScriptedScanner is a read-pipe scan with scripted outcomes.
type ScriptedScanner struct {
	script []bool
	calls  int
}

// Scan returns the next scripted outcome, or a pass once the script is
// exhausted.
func (s *ScriptedScanner) Scan() (bool, error) {
	s.calls++
	if s.calls <= len(s.script) {
		return s.script[s.calls-1], nil
	}

	return true, nil
}

// Calls returns the number of scans performed.
func (s *ScriptedScanner) Calls() int {
	return s.calls
}
