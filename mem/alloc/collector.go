package alloc

import "github.com/prometheus/client_golang/prometheus"

// Collector exports the counters of a StatsSource as Prometheus metrics:
//
//	<namespace>_allocs_total   counter
//	<namespace>_frees_total    counter
//	<namespace>_failed_total   counter
//	<namespace>_live_objects   gauge
//	<namespace>_live_bytes     gauge
//	<namespace>_mapped_bytes   gauge
//
// Values are read from the source on every scrape.
type Collector struct {
	src StatsSource

	allocs, frees, failed  *prometheus.Desc
	liveObjects, liveBytes *prometheus.Desc
	mappedBytes            *prometheus.Desc
}

// NewCollector returns a collector for src. labels are attached to every metric.
func NewCollector(namespace string, src StatsSource, labels prometheus.Labels) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, labels)
	}
	return &Collector{
		src:         src,
		allocs:      desc("allocs_total", "Successful allocations."),
		frees:       desc("frees_total", "Successful frees."),
		failed:      desc("failed_total", "Refused allocations."),
		liveObjects: desc("live_objects", "Allocations not yet freed."),
		liveBytes:   desc("live_bytes", "Bytes held by live allocations."),
		mappedBytes: desc("mapped_bytes", "Bytes mapped from the operating system."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocs
	ch <- c.frees
	ch <- c.failed
	ch <- c.liveObjects
	ch <- c.liveBytes
	ch <- c.mappedBytes
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(s.Allocs))
	ch <- prometheus.MustNewConstMetric(c.frees, prometheus.CounterValue, float64(s.Frees))
	ch <- prometheus.MustNewConstMetric(c.failed, prometheus.CounterValue, float64(s.Failed))
	ch <- prometheus.MustNewConstMetric(c.liveObjects, prometheus.GaugeValue, float64(s.LiveObjects))
	ch <- prometheus.MustNewConstMetric(c.liveBytes, prometheus.GaugeValue, float64(s.LiveBytes))
	ch <- prometheus.MustNewConstMetric(c.mappedBytes, prometheus.GaugeValue, float64(s.MappedBytes))
}
