// Package regs describes the hardware registers that the DRAM sequencers
// touch and the capability used to reach them.
package regs

import "fmt"

// Addr is the physical address of a 32-bit register.
type Addr uint32

// Offset returns the address of the word that is n words after a.
func (a Addr) Offset(n int) Addr {
	return a + Addr(n<<2)
}

func (a Addr) String() string {
	return fmt.Sprintf("0x%08x", uint32(a))
}

// Bus reads and writes fixed-width registers by address.
//
// A Bus is provided by the platform. Production code maps it onto the
// memory-mapped controller; tests and the emulator use a simulated bank.
type Bus interface {
	// Read returns the current value of the register at addr.
	Read(addr Addr) uint32

	// Write stores value into the register at addr.
	Write(addr Addr, value uint32)
}

// Modify performs a read-modify-write of the register at addr.
func Modify(bus Bus, addr Addr, fn func(uint32) uint32) uint32 {
	v := fn(bus.Read(addr))
	bus.Write(addr, v)

	return v
}

// SetBits sets the bits in mask, leaving the others unchanged.
func SetBits(bus Bus, addr Addr, mask uint32) {
	Modify(bus, addr, func(v uint32) uint32 { return v | mask })
}

// ClearBits clears the bits in mask, leaving the others unchanged.
func ClearBits(bus Bus, addr Addr, mask uint32) {
	Modify(bus, addr, func(v uint32) uint32 { return v &^ mask })
}
