// Package integrity checks that DRAM contents survive a suspend cycle.
package integrity

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Errors returned by the checker.
var (
	ErrEmptyWindow = errors.New("checksum window holds no word")
	ErrNoBaseline  = errors.New("no baseline checksum taken")
)

// chunkSize bounds the bytes read from memory at a time.
const chunkSize = 64 << 10

// Memory is the view of DRAM the checker reads through.
type Memory interface {
	Read(address uint64, length uint64) ([]byte, error)
}

// Window is a DRAM range to checksum.
type Window struct {
	Base uint64
	Size uint64
}

func (w Window) String() string {
	return fmt.Sprintf("[0x%x, 0x%x)", w.Base, w.Base+w.Size)
}

// Result compares a checksum taken before suspend with one taken after.
type Result struct {
	Window   Window
	Baseline uint32
	Current  uint32
	Match    bool
}

func (r Result) String() string {
	if r.Match {
		return fmt.Sprintf("checksum %s ok: 0x%08x", r.Window, r.Current)
	}

	return fmt.Sprintf("checksum %s mismatch: before 0x%08x, after 0x%08x",
		r.Window, r.Baseline, r.Current)
}

// Checker sums a DRAM window before and after a suspend cycle.
type Checker struct {
	mem      Memory
	window   Window
	baseline uint32
	hasBase  bool
}

// NewChecker creates a Checker over window of mem.
func NewChecker(mem Memory, window Window) *Checker {
	return &Checker{mem: mem, window: window}
}

// Window returns the checked range.
func (c *Checker) Window() Window {
	return c.window
}

// Sum returns the wrap-around sum of the little-endian words in the window.
func (c *Checker) Sum() (uint32, error) {
	words := c.window.Size / 4
	if words == 0 {
		return 0, ErrEmptyWindow
	}

	var sum uint32

	end := c.window.Base + words*4
	for addr := c.window.Base; addr < end; addr += chunkSize {
		n := min(uint64(chunkSize), end-addr)

		data, err := c.mem.Read(addr, n)
		if err != nil {
			return 0, fmt.Errorf("checksum at 0x%x: %w", addr, err)
		}

		for i := 0; i+4 <= len(data); i += 4 {
			sum += binary.LittleEndian.Uint32(data[i:])
		}
	}

	return sum, nil
}

// Baseline takes and keeps the checksum later runs of Verify compare with.
func (c *Checker) Baseline() (uint32, error) {
	sum, err := c.Sum()
	if err != nil {
		return 0, err
	}

	c.baseline = sum
	c.hasBase = true

	return sum, nil
}

// Verify recomputes the sum and compares it with the baseline.
func (c *Checker) Verify() (Result, error) {
	if !c.hasBase {
		return Result{}, ErrNoBaseline
	}

	cur, err := c.Sum()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Window:   c.window,
		Baseline: c.baseline,
		Current:  cur,
		Match:    cur == c.baseline,
	}, nil
}
