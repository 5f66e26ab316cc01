// Package datekey canonicalizes calendar days to sortable "YYYY-MM-DD" keys.
//
// A key is the join value between tasks, habits and calendar cells, so every
// package that buckets by day goes through here instead of formatting dates
// itself.
package datekey

import (
	"fmt"
	"time"
)

// Layout is the canonical key format.
const Layout = "2006-01-02"

// Key returns the calendar day of t in t's own location.
func Key(t time.Time) string {
	return t.Format(Layout)
}

// In returns the key of t as seen from loc. A nil loc uses t's location.
func In(t time.Time, loc *time.Location) string {
	if loc == nil {
		return Key(t)
	}
	return Key(t.In(loc))
}

// FromDate builds a key from calendar components.
func FromDate(year int, month time.Month, day int) string {
	return Key(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Parse returns midnight UTC of the day named by key.
// Arithmetic on the result never crosses a DST boundary.
func Parse(key string) (time.Time, error) {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// Valid reports whether key names a real calendar day in canonical form.
func Valid(key string) bool {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return false
	}
	// time.Parse accepts some non-canonical forms; round-trip to be sure.
	return t.Format(Layout) == key
}

// AddDays shifts key by n calendar days. An unparsable key is returned unchanged.
func AddDays(key string, n int) string {
	t, err := Parse(key)
	if err != nil {
		return key
	}
	return Key(t.AddDate(0, 0, n))
}

// Prev returns the day before key.
func Prev(key string) string {
	return AddDays(key, -1)
}

// DaysBetween returns the number of calendar days from a to b (b - a).
func DaysBetween(a, b string) (int, error) {
	ta, err := Parse(a)
	if err != nil {
		return 0, err
	}
	tb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// StartOfDay returns local midnight of t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// LoadLocation resolves a configured zone name. Empty means time.Local.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}
