// Package timefmt converts between the scheduler's wire and display clock
// formats. Times travel as 24-hour "HH:mm:ss" strings and render as
// "h:mm AM/PM".
package timefmt

import (
	"fmt"
	"time"
)

const (
	// WireClock is the 24-hour format section start times travel in.
	WireClock = "15:04:05"
	// DisplayClock is the 12-hour format shown to users.
	DisplayClock = "3:04 PM"
)

// ParseClock parses a wire-format clock string into a time anchored on the
// zero date. The date component is meaningless; only the clock matters.
func ParseClock(raw string) (time.Time, error) {
	t, err := time.Parse(WireClock, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", raw, err)
	}
	return t, nil
}

// Display renders a wire-format clock string for users. Invalid input is
// returned unchanged so a malformed record degrades visibly, not silently.
func Display(raw string) string {
	t, err := ParseClock(raw)
	if err != nil {
		return raw
	}
	return t.Format(DisplayClock)
}

// FormatClock renders a time's clock component in wire format.
func FormatClock(t time.Time) string {
	return t.Format(WireClock)
}
