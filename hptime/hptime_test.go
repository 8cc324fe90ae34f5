package hptime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSet(t *testing.T) {
	assert.False(t, HPT(Unset).IsSet())
	assert.True(t, HPT(0).IsSet())
	assert.True(t, HPT(12345).IsSet())
}

func TestSamplePeriod(t *testing.T) {
	assert.Equal(t, int64(Modulus), SamplePeriod(1))
	assert.Equal(t, int64(Modulus/100), SamplePeriod(100))
}

func TestAddTicksAndSamples(t *testing.T) {
	start := HPT(0)
	oneSecondLater := start.AddTicks(Modulus)
	assert.Equal(t, HPT(Modulus), oneSecondLater)

	tenSamplesAt100Hz := start.AddSamples(10, 100)
	assert.Equal(t, HPT(Modulus/10), tenSamplesAt100Hz)
}

func TestBeforeAfter(t *testing.T) {
	a, b := HPT(10), HPT(20)
	assert.True(t, Before(a, b))
	assert.False(t, Before(b, a))
	assert.True(t, After(b, a))
	assert.False(t, After(a, b))
	assert.False(t, Before(a, a))
}

func TestMinMax(t *testing.T) {
	a, b := HPT(10), HPT(20)
	assert.Equal(t, a, Min(a, b))
	assert.Equal(t, b, Max(a, b))
}

func TestSub(t *testing.T) {
	assert.Equal(t, int64(10), Sub(HPT(30), HPT(20)))
	assert.Equal(t, int64(-10), Sub(HPT(20), HPT(30)))
}
