package utils

import (
	"strconv"
	"strings"
)

// Int64ToStr converts an int64 to its string representation.
func Int64ToStr(num int64) string {
	return strconv.FormatInt(num, 10)
}

// StrToInt64 converts a string to an int64.
// Returns 0 and an error if the conversion fails.
func StrToInt64(s string) (int64, error) {
	num, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	return num, nil
}

// StrToFloat64 parses a decimal number after trimming surrounding whitespace.
func StrToFloat64(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// Float64ToStr formats f with the fewest digits that round-trip (100.5, not 100.500000).
func Float64ToStr(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
