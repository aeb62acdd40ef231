package utils

import "time"

// SafeDeref safely dereferences a string pointer and returns empty string if nil
func SafeDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// TimePtr returns a pointer to t. Useful when building records from
// value timestamps.
func TimePtr(t time.Time) *time.Time {
	return &t
}
