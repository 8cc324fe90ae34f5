package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareOrdering(t *testing.T) {
	assert.True(t, Q != D)
	assert.Negative(t, Compare(Q, D))
	assert.Negative(t, Compare(Q, R))
	assert.Negative(t, Compare(D, R))
	assert.Zero(t, Compare(Q, Q))
}

func TestOutranks(t *testing.T) {
	assert.True(t, Outranks(Q, D))
	assert.True(t, Outranks(D, R))
	assert.False(t, Outranks(R, Q))
	assert.False(t, Outranks(Q, Q))
}

func TestUnrecognizedQualityIsLowest(t *testing.T) {
	unknown := Quality('X')
	assert.True(t, Outranks(R, unknown) || Compare(R, unknown) == 0)
	assert.False(t, Outranks(unknown, Q))
	assert.Zero(t, Compare(unknown, Quality('Y')))
}
