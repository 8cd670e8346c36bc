package alloc

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ExportsStats(t *testing.T) {
	tr := NewTracking(Heap{}, 0)
	p, err := New[point](tr)
	require.NoError(t, err)
	_, err = New[point](tr)
	require.NoError(t, err)
	require.NoError(t, Delete(tr, p))

	c := NewCollector("ownkit", tr, prometheus.Labels{"allocator": "tracking"})
	assert.Equal(t, 6, testutil.CollectAndCount(c))

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	families, err := reg.Gather()
	require.NoError(t, err)

	got := make(map[string]float64)
	for _, mf := range families {
		require.Len(t, mf.GetMetric(), 1)
		m := mf.GetMetric()[0]
		require.Len(t, m.GetLabel(), 1)
		assert.Equal(t, "tracking", m.GetLabel()[0].GetValue())
		if m.Counter != nil {
			got[mf.GetName()] = m.GetCounter().GetValue()
		} else {
			got[mf.GetName()] = m.GetGauge().GetValue()
		}
	}

	assert.Equal(t, map[string]float64{
		"ownkit_allocs_total": 2,
		"ownkit_frees_total":  1,
		"ownkit_failed_total": 0,
		"ownkit_live_objects": 1,
		"ownkit_live_bytes":   16,
		"ownkit_mapped_bytes": 0,
	}, got)
}
