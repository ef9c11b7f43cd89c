// bitmask.go implements the fixed-capacity bit vectors used throughout the
// steward state: BitMask for per-validator phase progress and flags,
// LargeBitMask for the wider validator-history blacklist. Both are thin,
// fixed-capacity wrappers around github.com/bits-and-blooms/bitset so that
// Count/Set/Clear are backed by a real word-packed bit vector rather than a
// hand-rolled []bool.
package steward

import "github.com/bits-and-blooms/bitset"

// BitMask is a fixed-capacity bit vector over [0, MaxValidators).
type BitMask struct {
	capacity uint
	bits     *bitset.BitSet
}

// NewBitMask returns a BitMask with all bits clear.
func NewBitMask(capacity uint) *BitMask {
	return &BitMask{capacity: capacity, bits: bitset.New(capacity)}
}

// Get returns whether bit i is set. Out-of-range bits are always unset.
func (m *BitMask) Get(i uint) bool {
	if i >= m.capacity {
		return false
	}
	return m.bits.Test(i)
}

// Set assigns bit i.
func (m *BitMask) Set(i uint, v bool) error {
	if i >= m.capacity {
		return wrap(ErrValidatorIndexOutOfBounds, "BitMask.Set")
	}
	if v {
		m.bits.Set(i)
	} else {
		m.bits.Clear(i)
	}
	return nil
}

// Count returns the number of set bits.
func (m *BitMask) Count() uint {
	return m.bits.Count()
}

// IsEmpty reports whether no bits are set.
func (m *BitMask) IsEmpty() bool {
	return m.bits.Count() == 0
}

// IsComplete reports whether the first n bits are all set.
func (m *BitMask) IsComplete(n uint64) bool {
	if n == 0 {
		return true
	}
	var i uint
	for i = 0; uint64(i) < n; i++ {
		if !m.Get(i) {
			return false
		}
	}
	return true
}

// Reset clears every bit, matching BitMask::default() in the reference
// implementation (a fresh, all-zero bitmask).
func (m *BitMask) Reset() {
	m.bits.ClearAll()
}

// Capacity returns the fixed number of addressable bits.
func (m *BitMask) Capacity() uint {
	return m.capacity
}

// LargeBitMask is a fixed-capacity bit vector sized for the
// validator-history blacklist, which is indexed independently of pool
// position and therefore needs more bits than BitMask.
type LargeBitMask struct {
	*BitMask
}

// NewLargeBitMask returns a LargeBitMask with all bits clear.
func NewLargeBitMask(capacity uint) *LargeBitMask {
	return &LargeBitMask{BitMask: NewBitMask(capacity)}
}
