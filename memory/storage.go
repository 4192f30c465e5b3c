// Package memory provides sparse byte storage used to back simulated
// registers and simulated DRAM contents.
package memory

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Capacity units.
const (
	KB uint64 = 1 << 10
	MB uint64 = 1 << 20
	GB uint64 = 1 << 30
)

// ErrOutOfRange is returned when an access falls outside the storage.
var ErrOutOfRange = errors.New("access beyond storage capacity")

// A Storage keeps the data of a simulated address space starting at Base.
//
// The storage is managed in units, similar to pages. Units that are never
// touched by Read or Write are not allocated and read as zero.
type Storage struct {
	base     uint64
	unitSize uint64
	capacity uint64
	data     map[uint64][]byte
}

// NewStorage creates a storage of the given capacity starting at address 0.
func NewStorage(capacity uint64) *Storage {
	return NewStorageAt(0, capacity)
}

// NewStorageAt creates a storage covering [base, base+capacity).
func NewStorageAt(base, capacity uint64) *Storage {
	return &Storage{
		base:     base,
		unitSize: 4096,
		capacity: capacity,
		data:     make(map[uint64][]byte),
	}
}

// Base returns the first address of the storage.
func (s *Storage) Base() uint64 {
	return s.base
}

// Capacity returns the size of the storage in bytes.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

func (s *Storage) checkRange(address, length uint64) error {
	if address < s.base || address-s.base+length > s.capacity {
		return fmt.Errorf("%w: [0x%x, 0x%x)", ErrOutOfRange,
			address, address+length)
	}

	return nil
}

// unit returns the unit that holds offset, allocating it if asked to.
func (s *Storage) unit(offset uint64, create bool) []byte {
	baseAddr := offset - offset%s.unitSize

	u, ok := s.data[baseAddr]
	if !ok && create {
		u = make([]byte, s.unitSize)
		s.data[baseAddr] = u
	}

	return u
}

// Read returns length bytes starting at address.
func (s *Storage) Read(address uint64, length uint64) ([]byte, error) {
	if err := s.checkRange(address, length); err != nil {
		return nil, err
	}

	res := make([]byte, length)
	offset := address - s.base
	done := uint64(0)

	for done < length {
		inUnit := (offset + done) % s.unitSize
		n := min(s.unitSize-inUnit, length-done)

		if u := s.unit(offset+done, false); u != nil {
			copy(res[done:done+n], u[inUnit:inUnit+n])
		}

		done += n
	}

	return res, nil
}

// Write stores data starting at address.
func (s *Storage) Write(address uint64, data []byte) error {
	length := uint64(len(data))
	if err := s.checkRange(address, length); err != nil {
		return err
	}

	offset := address - s.base
	done := uint64(0)

	for done < length {
		inUnit := (offset + done) % s.unitSize
		n := min(s.unitSize-inUnit, length-done)

		u := s.unit(offset+done, true)
		copy(u[inUnit:inUnit+n], data[done:done+n])

		done += n
	}

	return nil
}

// Read32 reads a little-endian word.
func (s *Storage) Read32(address uint64) (uint32, error) {
	b, err := s.Read(address, 4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

// Write32 writes a little-endian word.
func (s *Storage) Write32(address uint64, value uint32) error {
	var b [4]byte

	binary.LittleEndian.PutUint32(b[:], value)

	return s.Write(address, b[:])
}
