package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNightsBetween(t *testing.T) {
	ci, _ := parseDate("2025-03-01")
	co, _ := parseDate("2025-03-05")
	assert.Equal(t, 4, nightsBetween(ci, co))

	co, _ = parseDate("2025-03-02")
	assert.Equal(t, 1, nightsBetween(ci, co))
}

func TestExpandDays(t *testing.T) {
	assert.Equal(t,
		[]string{"2025-03-01", "2025-03-02", "2025-03-03"},
		expandDays("2025-03-01", "2025-03-03"))

	// A zero-length range claims exactly one day.
	assert.Equal(t, []string{"2025-03-01"}, expandDays("2025-03-01", "2025-03-01"))

	assert.Nil(t, expandDays("2025-03-03", "2025-03-01"))
	assert.Nil(t, expandDays("not-a-date", "2025-03-01"))
}

func TestExpandDaysCrossesMonthBoundary(t *testing.T) {
	days := expandDays("2025-01-30", "2025-02-02")
	assert.Equal(t, []string{"2025-01-30", "2025-01-31", "2025-02-01", "2025-02-02"}, days)
}
