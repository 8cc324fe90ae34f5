package trim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earthscope-oss/dataselect/codec/fakecodec"
	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/quality"
)

func buildRecord(t *testing.T, n int) ([]byte, hptime.HPT, hptime.HPT) {
	t.Helper()
	samples := make([]int32, n)
	for i := range samples {
		samples[i] = int32(i)
	}
	rate := 100.0
	start := hptime.HPT(0)
	end := start.AddSamples(int64(n-1), rate)
	raw := fakecodec.Build("IU", "ANMO", "00", "BHZ", quality.D, start, rate, samples)
	return raw, start, end
}

func TestTrimDropsHeadSamples(t *testing.T) {
	raw, start, end := buildRecord(t, 10)
	period := hptime.SamplePeriod(100)
	newStart := start.AddTicks(3 * period)

	scratch := make([]byte, len(raw))
	res, err := Trim(fakecodec.New(), raw, start, end, newStart, hptime.HPT(hptime.Unset), scratch)
	require.NoError(t, err)

	rec, err := fakecodec.New().Unpack(res.Bytes)
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 4, 5, 6, 7, 8, 9}, rec.Samples)
	assert.Equal(t, newStart, rec.Header.StartTime)
}

func TestTrimDropsTailSamples(t *testing.T) {
	raw, start, end := buildRecord(t, 10)
	period := hptime.SamplePeriod(100)
	newEnd := end.AddTicks(-3 * period)

	scratch := make([]byte, len(raw))
	res, err := Trim(fakecodec.New(), raw, start, end, hptime.HPT(hptime.Unset), newEnd, scratch)
	require.NoError(t, err)

	rec, err := fakecodec.New().Unpack(res.Bytes)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 2, 3, 4, 5, 6}, rec.Samples)
}

func TestTrimBothEndsProducesDeterministicDigest(t *testing.T) {
	raw, start, end := buildRecord(t, 10)
	period := hptime.SamplePeriod(100)
	newStart := start.AddTicks(2 * period)
	newEnd := end.AddTicks(-2 * period)
	scratch := make([]byte, len(raw))

	res1, err := Trim(fakecodec.New(), raw, start, end, newStart, newEnd, scratch)
	require.NoError(t, err)

	scratch2 := make([]byte, len(raw))
	res2, err := Trim(fakecodec.New(), raw, start, end, newStart, newEnd, scratch2)
	require.NoError(t, err)

	assert.Equal(t, res1.Digest, res2.Digest)
	assert.Equal(t, res1.Bytes, res2.Bytes)
}

func TestTrimRejectsNewStartOutsideRange(t *testing.T) {
	raw, start, end := buildRecord(t, 10)
	scratch := make([]byte, len(raw))
	_, err := Trim(fakecodec.New(), raw, start, end, end.AddTicks(1), hptime.HPT(hptime.Unset), scratch)
	require.Error(t, err)
	var invalid *ErrInvalidTrim
	assert.ErrorAs(t, err, &invalid)
}

func TestTrimRejectsCrossedMarks(t *testing.T) {
	raw, start, end := buildRecord(t, 10)
	period := hptime.SamplePeriod(100)
	scratch := make([]byte, len(raw))
	_, err := Trim(fakecodec.New(), raw, start, end, end.AddTicks(-period), start.AddTicks(period), scratch)
	require.Error(t, err)
}

func TestRoundDivNegativeAndZero(t *testing.T) {
	assert.Equal(t, int64(0), roundDiv(0, 100))
	assert.Equal(t, int64(-2), roundDiv(-150, 100))
	assert.Equal(t, int64(2), roundDiv(150, 100))
	assert.Equal(t, int64(0), roundDiv(5, 0))
}
