package shiftclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBusinessDay_FixedOffsetIndependentOfServerLocale(t *testing.T) {
	clock := New(180) // UTC+3

	// 22:30 UTC on Jan 5 is already 01:30 on Jan 6 at the venue.
	late := time.Date(2025, 1, 5, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), clock.BusinessDay(late))

	// 20:59 UTC is still 23:59 on Jan 5 at the venue.
	early := time.Date(2025, 1, 5, 20, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), clock.BusinessDay(early))
}

func TestBusinessDay_InputZoneDoesNotMatter(t *testing.T) {
	clock := New(180)

	jakarta := time.FixedZone("WIB", 7*3600)
	asLocal := time.Date(2025, 1, 6, 1, 30, 0, 0, jakarta) // 18:30 UTC Jan 5
	asUTC := asLocal.UTC()

	assert.Equal(t, clock.BusinessDay(asUTC), clock.BusinessDay(asLocal))
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), clock.BusinessDay(asLocal))
}

func TestBusinessDay_NegativeOffset(t *testing.T) {
	clock := New(-300) // UTC-5

	// 02:00 UTC on Jan 6 is still 21:00 on Jan 5 at the venue.
	ts := time.Date(2025, 1, 6, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), clock.BusinessDay(ts))
}

func TestSameBusinessDay(t *testing.T) {
	clock := New(180)

	a := time.Date(2025, 1, 5, 21, 30, 0, 0, time.UTC) // Jan 6 at venue
	b := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)  // Jan 6 at venue
	c := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)  // Jan 5 at venue

	assert.True(t, clock.SameBusinessDay(a, b))
	assert.False(t, clock.SameBusinessDay(a, c))
}
