package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/quality"
	"github.com/earthscope-oss/dataselect/record"
)

var id = Identity{Network: "IU", Station: "ANMO", Location: "00", Channel: "BHZ"}

// attach mimics the reader's post-Insert bookkeeping: it links a
// placeholder descriptor into tr's record-map according to whence, since
// Group.Insert's New-vs-head-vs-tail classification of later records
// depends on the map already having a chain.
func attach(tr *Trace, whence Whence, start, end hptime.HPT) {
	f := record.NewFile("test.mseed")
	switch whence {
	case Head:
		tr.Records.PrependHead(f, 0, 512, start, end, quality.D)
	default:
		tr.Records.AppendTail(f, 0, 512, start, end, quality.D)
	}
}

func TestInsertFirstRecordIsNew(t *testing.T) {
	g := NewGroup(hptime.Tolerances{TimeTol: hptime.AutoTimeTol, SampRateTol: hptime.AutoSampRateTol}, false)
	tr, whence, err := g.Insert(id, 100, hptime.HPT(0), hptime.HPT(1000), quality.D)
	require.NoError(t, err)
	assert.Equal(t, New, whence)
	assert.Len(t, g.Traces(), 1)
	assert.Equal(t, id, tr.Identity)
}

func TestInsertTailExtension(t *testing.T) {
	g := NewGroup(hptime.Tolerances{TimeTol: hptime.AutoTimeTol, SampRateTol: hptime.AutoSampRateTol}, false)
	period := hptime.SamplePeriod(100)
	tr1, w1, err := g.Insert(id, 100, hptime.HPT(0), hptime.HPT(990000), quality.D)
	require.NoError(t, err)
	attach(tr1, w1, hptime.HPT(0), hptime.HPT(990000))

	tr2, whence, err := g.Insert(id, 100, hptime.HPT(990000+period), hptime.HPT(2000000), quality.D)
	require.NoError(t, err)
	assert.Same(t, tr1, tr2)
	assert.Equal(t, Tail, whence)
	assert.Equal(t, hptime.HPT(2000000), tr2.EndTime)
}

func TestInsertHeadExtension(t *testing.T) {
	g := NewGroup(hptime.Tolerances{TimeTol: hptime.AutoTimeTol, SampRateTol: hptime.AutoSampRateTol}, false)
	period := hptime.SamplePeriod(100)
	tr1, w1, err := g.Insert(id, 100, hptime.HPT(990000+period), hptime.HPT(2000000), quality.D)
	require.NoError(t, err)
	attach(tr1, w1, hptime.HPT(990000+period), hptime.HPT(2000000))

	tr2, whence, err := g.Insert(id, 100, hptime.HPT(0), hptime.HPT(990000), quality.D)
	require.NoError(t, err)
	assert.Same(t, tr1, tr2)
	assert.Equal(t, Head, whence)
	assert.Equal(t, hptime.HPT(0), tr2.StartTime)
}

func TestInsertDistinctRatesDoNotMerge(t *testing.T) {
	g := NewGroup(hptime.Tolerances{TimeTol: hptime.AutoTimeTol, SampRateTol: hptime.AutoSampRateTol}, false)
	_, _, err := g.Insert(id, 100, hptime.HPT(0), hptime.HPT(990000), quality.D)
	require.NoError(t, err)
	_, whence, err := g.Insert(id, 50, hptime.HPT(990000), hptime.HPT(2000000), quality.D)
	require.NoError(t, err)
	assert.Equal(t, New, whence)
	assert.Len(t, g.Traces(), 2)
}

func TestInsertBestQualityVetoesMerge(t *testing.T) {
	g := NewGroup(hptime.Tolerances{TimeTol: hptime.AutoTimeTol, SampRateTol: hptime.AutoSampRateTol}, true)
	_, _, err := g.Insert(id, 100, hptime.HPT(0), hptime.HPT(990000), quality.Q)
	require.NoError(t, err)
	_, whence, err := g.Insert(id, 100, hptime.HPT(990000), hptime.HPT(2000000), quality.D)
	require.NoError(t, err)
	assert.Equal(t, New, whence)
	assert.Len(t, g.Traces(), 2)
}

func TestInsertOutOfOrderInternalReturnsError(t *testing.T) {
	g := NewGroup(hptime.Tolerances{TimeTol: hptime.AutoTimeTol, SampRateTol: hptime.AutoSampRateTol}, false)
	tr1, w1, err := g.Insert(id, 100, hptime.HPT(0), hptime.HPT(10000000), quality.D)
	require.NoError(t, err)
	attach(tr1, w1, hptime.HPT(0), hptime.HPT(10000000))

	_, _, err = g.Insert(id, 100, hptime.HPT(3000000), hptime.HPT(5000000), quality.D)
	require.Error(t, err)
	var mis *ErrInternalMisclassification
	assert.ErrorAs(t, err, &mis)
}

func TestSortedOrdering(t *testing.T) {
	g := NewGroup(hptime.Tolerances{TimeTol: hptime.AutoTimeTol, SampRateTol: hptime.AutoSampRateTol}, false)
	idB := Identity{Network: "IU", Station: "COLA", Location: "00", Channel: "BHZ"}
	_, _, _ = g.Insert(idB, 100, hptime.HPT(0), hptime.HPT(990000), quality.D)
	_, _, _ = g.Insert(id, 100, hptime.HPT(0), hptime.HPT(990000), quality.D)

	sorted := g.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, id, sorted[0].Identity)
	assert.Equal(t, idB, sorted[1].Identity)
}

func TestSameChannel(t *testing.T) {
	g := NewGroup(hptime.Tolerances{TimeTol: hptime.AutoTimeTol, SampRateTol: hptime.AutoSampRateTol}, false)
	_, _, _ = g.Insert(id, 100, hptime.HPT(0), hptime.HPT(990000), quality.D)
	_, _, _ = g.Insert(id, 50, hptime.HPT(5000000), hptime.HPT(8000000), quality.D)

	same := g.SameChannel(id)
	assert.Len(t, same, 2)
}
