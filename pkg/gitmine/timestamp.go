package gitmine

import (
	"fmt"
	"strconv"
	"time"
)

// Timestamp holds both wall-clock readings Git's ISO-with-offset format
// encodes in a single string: the committing machine's local wall clock,
// and that same instant translated to UTC. Both are naive — represented in
// time.UTC regardless of what they denote — because downstream consumers
// choose for themselves whether they want cross-repo correlation (UTC) or
// developer-local patterns (local).
type Timestamp struct {
	UTC   time.Time
	Local time.Time
}

// ParseTimestamp parses Git's `YYYY-MM-DD HH:MM:SS ±HHMM` format by fixed
// offset indexing rather than a general-purpose date parser, since every
// field lands at a known byte offset and this runs once per commit field.
func ParseTimestamp(s string) (Timestamp, error) {
	if len(s) != 25 {
		return Timestamp{}, fmt.Errorf("malformed git timestamp %q: want 25 characters, got %d", s, len(s))
	}

	year, err1 := strconv.Atoi(s[0:4])
	month, err2 := strconv.Atoi(s[5:7])
	day, err3 := strconv.Atoi(s[8:10])
	hour, err4 := strconv.Atoi(s[11:13])
	minute, err5 := strconv.Atoi(s[14:16])
	second, err6 := strconv.Atoi(s[17:19])
	offHour, err7 := strconv.Atoi(s[21:23])
	offMinute, err8 := strconv.Atoi(s[23:25])
	for _, err := range []error{err1, err2, err3, err4, err5, err6, err7, err8} {
		if err != nil {
			return Timestamp{}, fmt.Errorf("malformed git timestamp %q: %w", s, err)
		}
	}

	sign := s[20]
	if sign != '+' && sign != '-' {
		return Timestamp{}, fmt.Errorf("malformed git timestamp %q: expected sign at offset 20, got %q", s, sign)
	}

	local := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)

	offset := time.Duration(offHour)*time.Hour + time.Duration(offMinute)*time.Minute
	if sign == '-' {
		offset = -offset
	}
	// wall_utc = wall_local - offset
	utc := local.Add(-offset)

	return Timestamp{UTC: utc, Local: local}, nil
}
