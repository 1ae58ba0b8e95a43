// Package bits provides small helpers for manipulating
// individual bits of unsigned integers.
package bits

import "golang.org/x/exp/constraints"

// Val returns the value (0 or 1) of the bit at index i.
func Val[T constraints.Unsigned](b T, i uint8) T {
	return (b >> i) & 1
}

// Reset returns b with the bit at index i cleared.
func Reset[T constraints.Unsigned](b T, i uint8) T {
	return b &^ (1 << i)
}

// Set returns b with the bit at index i set.
func Set[T constraints.Unsigned](b T, i uint8) T {
	return b | (1 << i)
}

// Test reports whether the bit at index i is set.
func Test[T constraints.Unsigned](b T, i uint8) bool {
	return (b>>i)&1 != 0
}

// Assign returns b with the bit at index i set to v.
func Assign[T constraints.Unsigned](b T, i uint8, v bool) T {
	if v {
		return Set(b, i)
	}
	return Reset(b, i)
}
