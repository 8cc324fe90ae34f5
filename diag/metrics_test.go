package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveFileStatsAccumulatesCounters(t *testing.T) {
	m := NewMetrics()
	m.ObserveFileStats(10, 2, 1, 0, 7, 1024)
	m.ObserveFileStats(5, 0, 0, 1, 5, 512)

	mf, err := m.Registry.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, f := range mf {
		values[f.GetName()] = f.GetMetric()[0].GetCounter().GetValue()
	}

	assert.Equal(t, 15.0, values["dataselect_records_read_total"])
	assert.Equal(t, 2.0, values["dataselect_records_removed_total"])
	assert.Equal(t, 1.0, values["dataselect_records_trimmed_total"])
	assert.Equal(t, 1.0, values["dataselect_records_split_total"])
	assert.Equal(t, 12.0, values["dataselect_records_written_total"])
	assert.Equal(t, 1536.0, values["dataselect_bytes_written_total"])
}
