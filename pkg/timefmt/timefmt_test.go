package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplay(t *testing.T) {
	cases := map[string]string{
		"09:00:00": "9:00 AM",
		"13:30:00": "1:30 PM",
		"00:05:00": "12:05 AM",
		"12:00:00": "12:00 PM",
		"23:59:00": "11:59 PM",
	}
	for wire, want := range cases {
		assert.Equal(t, want, Display(wire), wire)
	}
}

func TestDisplayMalformedPassesThrough(t *testing.T) {
	assert.Equal(t, "25:00:00", Display("25:00:00"))
	assert.Equal(t, "", Display(""))
	assert.Equal(t, "9am", Display("9am"))
}

func TestClockRoundTrip(t *testing.T) {
	parsed, err := ParseClock("16:45:30")
	require.NoError(t, err)
	assert.Equal(t, 16, parsed.Hour())
	assert.Equal(t, "16:45:30", FormatClock(parsed))
}

func TestFormatClockDropsDate(t *testing.T) {
	at := time.Date(2026, 2, 11, 8, 5, 0, 0, time.UTC)
	assert.Equal(t, "08:05:00", FormatClock(at))
}
