package utils

import "strings"

// NormalizeAddress lower-cases an address for comparison. Hex addresses carry
// no chain-level case guarantee, so equality checks must never rely on exact
// string matching.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// SameAddress reports whether two addresses refer to the same account,
// ignoring letter case.
func SameAddress(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	return NormalizeAddress(a) == NormalizeAddress(b)
}

// ShortAddress renders an address as "0xab...cdef" for display.
func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
