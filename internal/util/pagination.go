package util

import "strconv"

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ClampLimit bounds a requested page size to [1, MaxLimit], falling
// back to DefaultLimit when the value is absent or non-positive.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
