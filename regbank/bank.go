// Package regbank simulates a bank of 32-bit hardware registers. A Bank
// implements regs.Bus, so the sequencers can run against it unchanged.
package regbank

import (
	"fmt"
	"sync"

	"github.com/rs/xid"

	"github.com/sarchlab/dramctl/hooking"
	"github.com/sarchlab/dramctl/memory"
	"github.com/sarchlab/dramctl/regs"
)

// Hook positions of a Bank.
var (
	HookPosRead  = &hooking.HookPos{Name: "RegRead"}
	HookPosWrite = &hooking.HookPos{Name: "RegWrite"}
)

// AccessKind tells a read from a write.
type AccessKind int

// Access kinds.
const (
	AccessRead AccessKind = iota
	AccessWrite
)

func (k AccessKind) String() string {
	if k == AccessWrite {
		return "W"
	}

	return "R"
}

// An Access is one register operation seen by the bank.
type Access struct {
	ID    string
	Seq   uint64
	Kind  AccessKind
	Addr  regs.Addr
	Value uint32
}

func (a Access) String() string {
	return fmt.Sprintf("#%d %s %s 0x%08x", a.Seq, a.Kind, regs.Name(a.Addr),
		a.Value)
}

// A Bank is a simulated register file.
type Bank struct {
	hooking.HookableBase

	name      string
	lock      sync.Mutex
	storage   *memory.Storage
	behaviors map[regs.Addr][]Behavior
	seq       uint64
}

// NewBank creates a bank covering size bytes of registers from base.
func NewBank(name string, base regs.Addr, size uint64) *Bank {
	return &Bank{
		name:      name,
		storage:   memory.NewStorageAt(uint64(base), size),
		behaviors: make(map[regs.Addr][]Behavior),
	}
}

// Name returns the name of the bank.
func (b *Bank) Name() string {
	return b.name
}

// AddBehavior attaches a hardware behavior to a register.
func (b *Bank) AddBehavior(addr regs.Addr, behavior Behavior) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.behaviors[addr] = append(b.behaviors[addr], behavior)
}

// Read returns the register value after its behaviors ran.
func (b *Bank) Read(addr regs.Addr) uint32 {
	b.lock.Lock()

	v := b.load(addr)
	for _, beh := range b.behaviors[addr] {
		v = beh.OnRead(addr, v)
	}

	b.store(addr, v)
	access := b.newAccess(AccessRead, addr, v)

	b.lock.Unlock()

	b.InvokeHook(hooking.HookCtx{Domain: b, Pos: HookPosRead, Item: access})

	return v
}

// Write stores value, letting behaviors decide what the register latches.
func (b *Bank) Write(addr regs.Addr, value uint32) {
	b.lock.Lock()

	old := b.load(addr)
	v := value
	for _, beh := range b.behaviors[addr] {
		v = beh.OnWrite(addr, old, v)
	}

	b.store(addr, v)
	access := b.newAccess(AccessWrite, addr, value)

	b.lock.Unlock()

	b.InvokeHook(hooking.HookCtx{Domain: b, Pos: HookPosWrite, Item: access})
}

// Peek returns the stored value without running behaviors or hooks.
func (b *Bank) Peek(addr regs.Addr) uint32 {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.load(addr)
}

// Poke stores value without running behaviors or hooks. It is meant for
// setting up reset values and for simulating hardware-side changes.
func (b *Bank) Poke(addr regs.Addr, value uint32) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.store(addr, value)
}

// NumAccesses returns the number of reads and writes so far.
func (b *Bank) NumAccesses() uint64 {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.seq
}

// Snapshot returns the stored value of every register in addrs.
func (b *Bank) Snapshot(addrs []regs.Addr) map[regs.Addr]uint32 {
	b.lock.Lock()
	defer b.lock.Unlock()

	snap := make(map[regs.Addr]uint32, len(addrs))
	for _, a := range addrs {
		snap[a] = b.load(a)
	}

	return snap
}

func (b *Bank) newAccess(kind AccessKind, addr regs.Addr, v uint32) Access {
	b.seq++

	return Access{
		ID:    xid.New().String(),
		Seq:   b.seq,
		Kind:  kind,
		Addr:  addr,
		Value: v,
	}
}

func (b *Bank) load(addr regs.Addr) uint32 {
	v, err := b.storage.Read32(uint64(addr))
	if err != nil {
		panic(fmt.Sprintf("%s: read %s: %v", b.name, addr, err))
	}

	return v
}

func (b *Bank) store(addr regs.Addr, v uint32) {
	if err := b.storage.Write32(uint64(addr), v); err != nil {
		panic(fmt.Sprintf("%s: write %s: %v", b.name, addr, err))
	}
}
