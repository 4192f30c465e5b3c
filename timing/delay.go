// Package timing provides the busy-wait primitives used between register
// writes and hardware-status polls.
package timing

import (
	"sync/atomic"
	"time"
)

// A Delayer blocks the caller for a calibrated number of delay loops.
type Delayer interface {
	Delay(loops uint32)
}

// SpinDelayer spins on the calling goroutine without yielding. One loop
// lasts one period of LoopFreq.
type SpinDelayer struct {
	LoopFreq Freq
}

// NewSpinDelayer creates a SpinDelayer calibrated to freq.
func NewSpinDelayer(freq Freq) *SpinDelayer {
	return &SpinDelayer{LoopFreq: freq}
}

// Delay spins until the loops have elapsed.
func (d *SpinDelayer) Delay(loops uint32) {
	deadline := time.Now().Add(d.LoopFreq.Duration(loops))
	for time.Now().Before(deadline) {
	}
}

// CountingDelayer does not wait. It only accumulates the loops requested so
// that emulated runs finish instantly and tests can assert on settle time.
type CountingDelayer struct {
	loops uint64
	calls uint64
}

// Delay records the request.
func (d *CountingDelayer) Delay(loops uint32) {
	atomic.AddUint64(&d.loops, uint64(loops))
	atomic.AddUint64(&d.calls, 1)
}

// Loops returns the total number of loops requested so far.
func (d *CountingDelayer) Loops() uint64 {
	return atomic.LoadUint64(&d.loops)
}

// Calls returns the number of Delay calls.
func (d *CountingDelayer) Calls() uint64 {
	return atomic.LoadUint64(&d.calls)
}
