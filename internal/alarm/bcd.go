// Package alarm implements component C5: converting a target wake instant
// to and from the RTC alarm register fields, including the day-of-week
// wildcard and the bounded reconstruction search.
package alarm

// EncodeBCD converts a two-digit decimal value (0-99) to its
// binary-coded-decimal register representation. Grounded on
// _examples/original_source/wittypi4/__init__.py's bcd2dec/dec2bcd helpers,
// which every WittyPi4 register read/write goes through.
func EncodeBCD(value int) byte {
	return byte(value + 6*(value/10))
}

// DecodeBCD is the inverse of EncodeBCD.
func DecodeBCD(reg byte) int {
	v := int(reg)
	return v - 6*(v>>4)
}
