package dto

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)
	hexPrefix   = regexp.MustCompile(`^0[xX][0-9a-fA-F]+`)
	intPrefix   = regexp.MustCompile(`^\d+`)
)

// ParseFloatPrefix reads the longest leading decimal number of s, ignoring
// leading whitespace and any trailing text ("2.5kg" is 2.5). It returns nil
// when s has no numeric prefix or the value is not finite, which encodes as
// JSON null.
func ParseFloatPrefix(s string) *float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	m := floatPrefix.FindString(s)
	if m == "" {
		return nil
	}
	if strings.HasSuffix(strings.TrimLeft(m, "+-"), "Infinity") {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(m, "."), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// ParseIntPrefix reads the leading integer of s ("12.7" is 12, "0x1A" is 26).
// It returns nil when s has no digits, a bare "0x", or the value overflows.
func ParseIntPrefix(s string) *int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	base := 10
	digits := intPrefix.FindString(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		// a hex marker without hex digits is not a number
		base = 16
		digits = strings.TrimPrefix(hexPrefix.FindString(s), s[:2])
	}
	if digits == "" {
		return nil
	}

	v, err := strconv.ParseInt(digits, base, strconv.IntSize)
	if err != nil {
		return nil
	}
	n := int(v)
	if negative {
		n = -n
	}
	return &n
}
