// util/helper/time.go
package helper_util

import "time"

// ParseTime parses an RFC 3339 timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ParseTimeRange reads an optional [from, to] window. Missing bounds default
// to the last day.
func ParseTimeRange(from, to string, now time.Time) (time.Time, time.Time, error) {
	end := now
	if to != "" {
		t, err := ParseTime(to)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = t
	}
	start := end.Add(-24 * time.Hour)
	if from != "" {
		t, err := ParseTime(from)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = t
	}
	return start, end, nil
}
