package regbank

import "github.com/sarchlab/dramctl/regs"

// A Behavior models how hardware reacts to register accesses.
type Behavior interface {
	// OnWrite returns the value the register latches when value is written
	// over old.
	OnWrite(addr regs.Addr, old, value uint32) uint32

	// OnRead returns the value the register holds at this read.
	OnRead(addr regs.Addr, current uint32) uint32
}

// SelfClearing models status bits that hardware clears once the requested
// operation completes. After a write sets any bit of Mask, the next After
// reads still see the bits set; the read after that sees them cleared.
type SelfClearing struct {
	Mask  uint32
	After int

	remaining int
}

// OnWrite arms the countdown.
func (s *SelfClearing) OnWrite(_ regs.Addr, _, value uint32) uint32 {
	if value&s.Mask == 0 {
		return value
	}

	if s.After <= 0 {
		return value &^ s.Mask
	}

	s.remaining = s.After

	return value
}

// OnRead counts down and clears the bits when done.
func (s *SelfClearing) OnRead(_ regs.Addr, current uint32) uint32 {
	if current&s.Mask == 0 {
		return current
	}

	if s.remaining > 0 {
		s.remaining--
		return current
	}

	return current &^ s.Mask
}

// Handshake models an acknowledge bit driven by hardware in answer to
// request patterns. Writing SetPattern makes Ack become 1, writing
// ClearPattern makes it become 0. The first After reads following the
// request still see the previous acknowledge state.
type Handshake struct {
	Ack          regs.Bit
	SetPattern   uint32
	ClearPattern uint32
	After        int

	pending   bool
	target    bool
	remaining int
}

// OnWrite latches the request; the acknowledge bit is read-only.
func (h *Handshake) OnWrite(_ regs.Addr, old, value uint32) uint32 {
	switch value {
	case h.SetPattern:
		h.request(true)
	case h.ClearPattern:
		h.request(false)
	}

	return h.Ack.Assign(value, h.Ack.IsSet(old))
}

func (h *Handshake) request(target bool) {
	h.pending = true
	h.target = target
	h.remaining = h.After
}

// OnRead drives the acknowledge bit once the countdown has run out.
func (h *Handshake) OnRead(_ regs.Addr, current uint32) uint32 {
	if !h.pending {
		return current
	}

	if h.remaining > 0 {
		h.remaining--
		return current
	}

	h.pending = false

	return h.Ack.Assign(current, h.target)
}

// Stuck forces the bits of Mask to Value forever, simulating hardware that
// never completes.
type Stuck struct {
	Mask  uint32
	Value uint32
}

// OnWrite forces the stuck bits.
func (s *Stuck) OnWrite(_ regs.Addr, _, value uint32) uint32 {
	return value&^s.Mask | s.Value&s.Mask
}

// OnRead forces the stuck bits.
func (s *Stuck) OnRead(_ regs.Addr, current uint32) uint32 {
	return current&^s.Mask | s.Value&s.Mask
}
