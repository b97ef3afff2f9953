package util

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrBadDate = errors.New("malformed date")

// ParseLocalDate reads "YYYY-MM-DD" or "YYYY-MM-DDTHH:mm:ss" and returns
// midnight of that calendar day in loc. The clock part is ignored, and the
// value is built from its integer parts so no UTC conversion can move it
// to a neighbouring day.
func ParseLocalDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	raw := strings.TrimSpace(s)
	if i := strings.IndexAny(raw, "T "); i >= 0 {
		raw = raw[:i]
	}

	parts := strings.Split(raw, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	y, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	d, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || m < 1 || m > 12 || d < 1 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
	if t.Day() != d {
		// 2025-02-30 would silently roll over into March
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	return t, nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

var (
	reColonTime = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?$`)
	reDigitTime = regexp.MustCompile(`^\d{3,4}$`)
)

// FormatTime turns "9:00", "09:00:00", "900" or "1400" into "HH:mm".
// Anything else comes back unchanged.
func FormatTime(s string) string {
	t := strings.TrimSpace(s)
	if m := reColonTime.FindStringSubmatch(t); m != nil {
		if len(m[1]) == 1 {
			return "0" + m[1] + ":" + m[2]
		}
		return m[1] + ":" + m[2]
	}
	if reDigitTime.MatchString(t) {
		if len(t) == 3 {
			t = "0" + t
		}
		return t[:2] + ":" + t[2:]
	}
	return s
}

// ClockOf parses a time string in any FormatTime format into hour and minute.
func ClockOf(s string) (hour, minute int, ok bool) {
	f := FormatTime(s)
	if len(f) != 5 || f[2] != ':' {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(f[:2])
	m, err2 := strconv.Atoi(f[3:])
	if err1 != nil || err2 != nil || h > 23 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
