package storage

import (
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

// pebbleCollector exports a subset of pebble.Metrics on every scrape.
type pebbleCollector struct {
	db *pebble.DB

	compactions     *prometheus.Desc
	compactionDebt  *prometheus.Desc
	memtableSize    *prometheus.Desc
	memtableCount   *prometheus.Desc
	walFiles        *prometheus.Desc
	walSize         *prometheus.Desc
	walBytesWritten *prometheus.Desc
}

// Collector returns a Prometheus collector over the database's metrics.
func (p *Pebble) Collector() prometheus.Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("uniflow_pebble_"+name, help, nil, nil)
	}
	return &pebbleCollector{
		db:              p.db,
		compactions:     desc("compactions_total", "Compactions performed"),
		compactionDebt:  desc("compaction_debt_bytes", "Estimated bytes left to compact"),
		memtableSize:    desc("memtable_size_bytes", "Current memtable size"),
		memtableCount:   desc("memtables", "Current memtable count"),
		walFiles:        desc("wal_files", "Live WAL files"),
		walSize:         desc("wal_size_bytes", "Live WAL data size"),
		walBytesWritten: desc("wal_bytes_written_total", "Physical bytes written to the WAL"),
	}
}

func (c *pebbleCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.compactions
	ch <- c.compactionDebt
	ch <- c.memtableSize
	ch <- c.memtableCount
	ch <- c.walFiles
	ch <- c.walSize
	ch <- c.walBytesWritten
}

func (c *pebbleCollector) Collect(ch chan<- prometheus.Metric) {
	m := c.db.Metrics()

	ch <- prometheus.MustNewConstMetric(c.compactions, prometheus.CounterValue, float64(m.Compact.Count))
	ch <- prometheus.MustNewConstMetric(c.compactionDebt, prometheus.GaugeValue, float64(m.Compact.EstimatedDebt))
	ch <- prometheus.MustNewConstMetric(c.memtableSize, prometheus.GaugeValue, float64(m.MemTable.Size))
	ch <- prometheus.MustNewConstMetric(c.memtableCount, prometheus.GaugeValue, float64(m.MemTable.Count))
	ch <- prometheus.MustNewConstMetric(c.walFiles, prometheus.GaugeValue, float64(m.WAL.Files))
	ch <- prometheus.MustNewConstMetric(c.walSize, prometheus.GaugeValue, float64(m.WAL.Size))
	ch <- prometheus.MustNewConstMetric(c.walBytesWritten, prometheus.CounterValue, float64(m.WAL.BytesWritten))
}
