package parser

import "strconv"

// ParseQuota coerces an enrollment quota cell. Blank, non-numeric, out of
// range and negative values collapse to 0 with defaulted set.
func ParseQuota(text string) (v int16, defaulted bool) {
	n, err := strconv.ParseInt(text, 10, 16)
	if err != nil || n < 0 {
		return 0, true
	}
	return int16(n), false
}

// ParseScore coerces a minimum-score cell. Anything that does not parse as a
// small signed integer becomes 0 with defaulted set. Negative values parse
// fine and are left for the caller to discard.
func ParseScore(text string) (v int8, defaulted bool) {
	n, err := strconv.ParseInt(text, 10, 8)
	if err != nil {
		return 0, true
	}
	return int8(n), false
}
