package clinic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateIsValid(t *testing.T) {
	tests := []struct {
		name string
		date Date
		want bool
	}{
		{"leap day in leap year", NewDate(2024, 2, 29), true},
		{"leap day in common year", NewDate(2023, 2, 29), false},
		{"century not leap", NewDate(1900, 2, 29), false},
		{"quad century leap", NewDate(2000, 2, 29), true},
		{"april 31", NewDate(2023, 4, 31), false},
		{"year zero", NewDate(0, 1, 1), false},
		{"month zero", NewDate(2023, 0, 10), false},
		{"month thirteen", NewDate(2023, 13, 1), false},
		{"day zero", NewDate(2023, 5, 0), false},
		{"december 31", NewDate(2023, 12, 31), true},
		{"day 32", NewDate(2023, 1, 32), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.date.IsValid())
		})
	}
}

func TestDateCompare(t *testing.T) {
	a := NewDate(2024, 2, 29)
	b := NewDate(2023, 2, 28)

	assert.Equal(t, 1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(NewDate(2024, 2, 29)))
	assert.Equal(t, -1, NewDate(2024, 1, 31).Compare(NewDate(2024, 2, 1)))
	assert.Equal(t, -1, NewDate(2024, 3, 1).Compare(NewDate(2024, 3, 2)))
	assert.True(t, b.Before(a))
	assert.True(t, a.After(b))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("6/16/2025")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2025, 6, 16), d)
	assert.Equal(t, "6/16/2025", d.String())

	// Parsing does not check the calendar.
	d, err = ParseDate("2/30/2023")
	require.NoError(t, err)
	assert.False(t, d.IsValid())

	for _, bad := range []string{"", "6/16", "6-16-2025", "a/b/c", "6/16/2025/1"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrMalformedDate, bad)
	}
}

func TestDateAddMonths(t *testing.T) {
	assert.Equal(t, NewDate(2025, 7, 15), NewDate(2025, 1, 15).AddMonths(6))
	assert.Equal(t, NewDate(2026, 2, 28), NewDate(2025, 8, 31).AddMonths(6))
	assert.Equal(t, NewDate(2024, 2, 29), NewDate(2023, 8, 31).AddMonths(6))
	assert.Equal(t, NewDate(2026, 1, 10), NewDate(2025, 12, 10).AddMonths(1))
}

func TestDateWeekend(t *testing.T) {
	assert.Equal(t, time.Saturday, NewDate(2025, 6, 14).Weekday())
	assert.True(t, NewDate(2025, 6, 14).IsWeekend())
	assert.True(t, NewDate(2025, 6, 15).IsWeekend())
	assert.False(t, NewDate(2025, 6, 16).IsWeekend())
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2025, time.January, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, NewDate(2025, 1, 15), DateOf(ts))
}
