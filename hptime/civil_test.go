package hptime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToTimeFromTimeRoundTrip(t *testing.T) {
	tm := time.Date(2024, time.March, 5, 12, 30, 45, 123000000, time.UTC)
	hpt := FromTime(tm)
	back := ToTime(hpt)
	assert.True(t, back.Equal(tm))
}

func TestToTimeNegativeRemainder(t *testing.T) {
	// A tick count whose modulus is negative must still resolve to a time
	// just before the second boundary, not be shifted a full second late.
	hpt := HPT(-1)
	tm := ToTime(hpt)
	assert.Equal(t, int64(1969), int64(tm.Year()))
}
