package utils

// JoinUint16 combines a high and low byte into a 16-bit value.
func JoinUint16(high, low uint8) uint16 {
	return uint16(high)<<8 | uint16(low)
}

// SplitUint16 splits a 16-bit value into its high and low bytes.
func SplitUint16(value uint16) (high, low uint8) {
	return uint8(value >> 8), uint8(value)
}
