package regs

import (
	"errors"
	"fmt"
)

// ErrFieldOverflow is returned when a value does not fit in a field.
var ErrFieldOverflow = errors.New("value does not fit in register field")

// A Field is a contiguous group of bits inside a 32-bit register.
type Field struct {
	Name  string
	Shift uint
	Width uint
}

// MakeField creates a field covering bits [lo, hi].
func MakeField(name string, lo, hi uint) Field {
	if hi < lo || hi > 31 {
		panic(fmt.Sprintf("invalid field %s [%d:%d]", name, hi, lo))
	}

	return Field{Name: name, Shift: lo, Width: hi - lo + 1}
}

// Max returns the largest value the field can hold.
func (f Field) Max() uint32 {
	if f.Width >= 32 {
		return ^uint32(0)
	}

	return (1 << f.Width) - 1
}

// Mask returns the field bits in register position.
func (f Field) Mask() uint32 {
	return f.Max() << f.Shift
}

// Get extracts the field from a register word.
func (f Field) Get(word uint32) uint32 {
	return (word >> f.Shift) & f.Max()
}

// Set returns word with the field replaced by value. Bits outside the field
// are preserved.
func (f Field) Set(word, value uint32) (uint32, error) {
	if value > f.Max() {
		return word, fmt.Errorf("%w: %s is %d bits wide, got %d",
			ErrFieldOverflow, f.Name, f.Width, value)
	}

	return (word &^ f.Mask()) | (value << f.Shift), nil
}

// MustSet is Set for values known to fit. It panics otherwise.
func (f Field) MustSet(word, value uint32) uint32 {
	w, err := f.Set(word, value)
	if err != nil {
		panic(err)
	}

	return w
}

// A Bit is a single-bit field.
type Bit uint

// Mask returns the bit in register position.
func (b Bit) Mask() uint32 {
	return 1 << uint(b)
}

// IsSet tells if the bit is set in word.
func (b Bit) IsSet(word uint32) bool {
	return word&b.Mask() != 0
}

// Set returns word with the bit set.
func (b Bit) Set(word uint32) uint32 {
	return word | b.Mask()
}

// Clear returns word with the bit cleared.
func (b Bit) Clear(word uint32) uint32 {
	return word &^ b.Mask()
}

// Assign returns word with the bit set to on.
func (b Bit) Assign(word uint32, on bool) uint32 {
	if on {
		return b.Set(word)
	}

	return b.Clear(word)
}
