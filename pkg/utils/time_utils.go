package utils

import "time"

// ElapsedDays calculates the number of whole days between since and now.
// Returns 0 when since is in the future relative to now.
func ElapsedDays(since time.Time, now time.Time) int {
	if now.Before(since) {
		return 0
	}
	return int(now.Sub(since).Hours() / 24)
}

// MostRecent returns the latest of the given timestamps, ignoring nils.
// Returns nil when every input is nil.
func MostRecent(times ...*time.Time) *time.Time {
	var latest *time.Time
	for _, t := range times {
		if t == nil {
			continue
		}
		if latest == nil || t.After(*latest) {
			latest = t
		}
	}
	return latest
}
