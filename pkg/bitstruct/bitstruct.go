// Package bitstruct is the runtime support library for code generated by
// `vw generate`. Generated structs carry one Vector per hardware field, with
// the exact bit width recorded both in the Vector itself and in a `bits` struct
// tag on the field.
package bitstruct

import "fmt"

// Vector is a fixed-width bit vector. The zero value is unusable; construct
// with New so the width is pinned.
type Vector struct {
	width int
	bits  []byte
}

// New returns a zero-initialized Vector of the given width in bits.
// Width must be positive.
func New(width int) Vector {
	if width <= 0 {
		panic(fmt.Sprintf("bitstruct: invalid vector width %d", width))
	}
	return Vector{
		width: width,
		bits:  make([]byte, (width+7)/8),
	}
}

// Width reports the vector's width in bits.
func (v Vector) Width() int { return v.width }

// Bit reports the bit at position i (0 is the least significant).
func (v Vector) Bit(i int) (bool, error) {
	if i < 0 || i >= v.width {
		return false, fmt.Errorf("bitstruct: bit %d out of range for width %d", i, v.width)
	}
	return v.bits[i/8]&(1<<(i%8)) != 0, nil
}

// SetBit sets the bit at position i.
func (v *Vector) SetBit(i int, val bool) error {
	if i < 0 || i >= v.width {
		return fmt.Errorf("bitstruct: bit %d out of range for width %d", i, v.width)
	}
	if val {
		v.bits[i/8] |= 1 << (i % 8)
	} else {
		v.bits[i/8] &^= 1 << (i % 8)
	}
	return nil
}

// Uint returns the vector's value as a uint64. It fails for widths above 64.
func (v Vector) Uint() (uint64, error) {
	if v.width > 64 {
		return 0, fmt.Errorf("bitstruct: width %d does not fit in uint64", v.width)
	}
	var out uint64
	for i := len(v.bits) - 1; i >= 0; i-- {
		out = out<<8 | uint64(v.bits[i])
	}
	return out, nil
}

// SetUint stores val in the vector. It fails when val needs more bits than
// the vector holds.
func (v *Vector) SetUint(val uint64) error {
	if v.width < 64 && val>>v.width != 0 {
		return fmt.Errorf("bitstruct: value %d does not fit in %d bits", val, v.width)
	}
	for i := range v.bits {
		v.bits[i] = byte(val)
		val >>= 8
	}
	// Mask stray bits in the top byte.
	if rem := v.width % 8; rem != 0 {
		v.bits[len(v.bits)-1] &= byte(1<<rem) - 1
	}
	return nil
}

// Bytes returns the backing bytes, least significant byte first. The slice is
// shared with the vector; callers must not grow it.
func (v Vector) Bytes() []byte { return v.bits }
