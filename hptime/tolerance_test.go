package hptime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicksAuto(t *testing.T) {
	tol := Tolerances{TimeTol: AutoTimeTol, SampRateTol: AutoSampRateTol}
	assert.Equal(t, SamplePeriod(100)/2, tol.Ticks(100))
}

func TestTicksExplicit(t *testing.T) {
	tol := Tolerances{TimeTol: 0.5}
	assert.Equal(t, int64(Modulus/2), tol.Ticks(100))
}

func TestWithinTime(t *testing.T) {
	tol := Tolerances{TimeTol: AutoTimeTol}
	rate := 100.0
	half := SamplePeriod(rate) / 2
	assert.True(t, tol.WithinTime(HPT(0), HPT(half), rate))
	assert.False(t, tol.WithinTime(HPT(0), HPT(half+1), rate))
}

func TestSameRateExact(t *testing.T) {
	tol := Tolerances{SampRateTol: AutoSampRateTol}
	assert.True(t, tol.SameRate(100, 100))
}

func TestSameRateAutoConvention(t *testing.T) {
	tol := Tolerances{SampRateTol: AutoSampRateTol}
	assert.True(t, tol.SameRate(100, 100.4))
	assert.False(t, tol.SameRate(100, 110))
}

func TestSameRateExplicitFraction(t *testing.T) {
	tol := Tolerances{SampRateTol: 0.1}
	assert.True(t, tol.SameRate(100, 105))
	assert.False(t, tol.SameRate(100, 120))
}

func TestSameRateZero(t *testing.T) {
	tol := Tolerances{SampRateTol: AutoSampRateTol}
	assert.False(t, tol.SameRate(0, 100))
}
