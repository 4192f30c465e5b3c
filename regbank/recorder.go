package regbank

import (
	"sync"

	"github.com/sarchlab/dramctl/hooking"
	"github.com/sarchlab/dramctl/regs"
)

// A Recorder is a hook that keeps the ordered log of bank accesses.
type Recorder struct {
	lock     sync.Mutex
	accesses []Access
}

// NewRecorder creates a Recorder and attaches it to bank.
func NewRecorder(bank *Bank) *Recorder {
	r := &Recorder{}
	bank.AcceptHook(r)

	return r
}

// Func records the access carried by ctx.
func (r *Recorder) Func(ctx hooking.HookCtx) {
	a, ok := ctx.Item.(Access)
	if !ok {
		return
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.accesses = append(r.accesses, a)
}

// Accesses returns a copy of the log.
func (r *Recorder) Accesses() []Access {
	r.lock.Lock()
	defer r.lock.Unlock()

	out := make([]Access, len(r.accesses))
	copy(out, r.accesses)

	return out
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.accesses = nil
}

// WritesTo returns the values written to addr, in order.
func (r *Recorder) WritesTo(addr regs.Addr) []uint32 {
	var values []uint32

	for _, a := range r.Accesses() {
		if a.Kind == AccessWrite && a.Addr == addr {
			values = append(values, a.Value)
		}
	}

	return values
}

// Find returns the index of the first access at or after from that matches
// pred, or -1.
func (r *Recorder) Find(from int, pred func(Access) bool) int {
	accesses := r.Accesses()
	for i := max(from, 0); i < len(accesses); i++ {
		if pred(accesses[i]) {
			return i
		}
	}

	return -1
}

// IsWriteOf matches writes to addr whose value satisfies match.
func IsWriteOf(addr regs.Addr, match func(uint32) bool) func(Access) bool {
	return func(a Access) bool {
		return a.Kind == AccessWrite && a.Addr == addr && match(a.Value)
	}
}

// IsReadOf matches reads of addr whose value satisfies match.
func IsReadOf(addr regs.Addr, match func(uint32) bool) func(Access) bool {
	return func(a Access) bool {
		return a.Kind == AccessRead && a.Addr == addr && match(a.Value)
	}
}
