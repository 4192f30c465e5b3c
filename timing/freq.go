package timing

import (
	"log"
	"math"
	"time"
)

// Freq defines the type of frequency
type Freq float64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Period returns the time a single delay loop takes at this frequency.
func (f Freq) Period() time.Duration {
	if f == 0 {
		log.Panic("frequency cannot be 0")
	}

	return time.Duration(float64(time.Second) / float64(f))
}

// Loops converts a duration into the number of delay loops that cover it.
// The result saturates at the largest loop count a Delayer accepts.
func (f Freq) Loops(d time.Duration) uint32 {
	if f == 0 {
		log.Panic("frequency cannot be 0")
	}

	if d <= 0 {
		return 0
	}

	n := math.Ceil(d.Seconds() * float64(f))
	if n >= math.MaxUint32 {
		return math.MaxUint32
	}

	return uint32(n)
}

// Duration returns the time that n delay loops take.
func (f Freq) Duration(loops uint32) time.Duration {
	return time.Duration(loops) * f.Period()
}
