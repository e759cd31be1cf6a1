package drive

import (
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics covers the driver loop and the checkpoint store. Pass a nil
// registerer to keep them unregistered (tests, embedded use).
type Metrics struct {
	Steps       prometheus.Counter
	StepSeconds prometheus.Gauge
	Saves       prometheus.Counter
	Loads       prometheus.Counter
	DecodeFails prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealy_steps_total",
			Help: "Total transducer steps driven",
		}),
		StepSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mealy_step_seconds_avg",
			Help: "Running average step latency in seconds",
		}),
		Saves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealy_checkpoint_saves_total",
			Help: "Total checkpoints written to the store",
		}),
		Loads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealy_checkpoint_loads_total",
			Help: "Total checkpoints decoded successfully",
		}),
		DecodeFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealy_checkpoint_decode_failures_total",
			Help: "Total checkpoint loads rejected as mismatched or malformed",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Steps, m.StepSeconds, m.Saves, m.Loads, m.DecodeFails)
	}
	return m
}

// StoreCollector exposes the store's pebble internals to prometheus.
type StoreCollector struct {
	db *pebble.DB

	compactionCount *prometheus.Desc
	compactionDebt  *prometheus.Desc
	memtableSize    *prometheus.Desc
	memtableCount   *prometheus.Desc
	walFiles        *prometheus.Desc
	walSize         *prometheus.Desc
	walBytesWritten *prometheus.Desc
}

func NewStoreCollector(s *Store) *StoreCollector {
	return &StoreCollector{
		db: s.db,
		compactionCount: prometheus.NewDesc(
			"mealy_store_compaction_count_total",
			"Total number of pebble compactions performed",
			nil, nil,
		),
		compactionDebt: prometheus.NewDesc(
			"mealy_store_compaction_estimated_debt_bytes",
			"Estimated number of bytes awaiting compaction",
			nil, nil,
		),
		memtableSize: prometheus.NewDesc(
			"mealy_store_memtable_size_bytes",
			"Current size of the memtable",
			nil, nil,
		),
		memtableCount: prometheus.NewDesc(
			"mealy_store_memtable_count",
			"Number of memtables",
			nil, nil,
		),
		walFiles: prometheus.NewDesc(
			"mealy_store_wal_files",
			"Number of live WAL files",
			nil, nil,
		),
		walSize: prometheus.NewDesc(
			"mealy_store_wal_size_bytes",
			"Current WAL size",
			nil, nil,
		),
		walBytesWritten: prometheus.NewDesc(
			"mealy_store_wal_bytes_written_total",
			"Total bytes written to the WAL",
			nil, nil,
		),
	}
}

func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.compactionCount
	ch <- c.compactionDebt
	ch <- c.memtableSize
	ch <- c.memtableCount
	ch <- c.walFiles
	ch <- c.walSize
	ch <- c.walBytesWritten
}

func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	m := c.db.Metrics()
	ch <- prometheus.MustNewConstMetric(c.compactionCount, prometheus.CounterValue, float64(m.Compact.Count))
	ch <- prometheus.MustNewConstMetric(c.compactionDebt, prometheus.GaugeValue, float64(m.Compact.EstimatedDebt))
	ch <- prometheus.MustNewConstMetric(c.memtableSize, prometheus.GaugeValue, float64(m.MemTable.Size))
	ch <- prometheus.MustNewConstMetric(c.memtableCount, prometheus.GaugeValue, float64(m.MemTable.Count))
	ch <- prometheus.MustNewConstMetric(c.walFiles, prometheus.GaugeValue, float64(m.WAL.Files))
	ch <- prometheus.MustNewConstMetric(c.walSize, prometheus.GaugeValue, float64(m.WAL.Size))
	ch <- prometheus.MustNewConstMetric(c.walBytesWritten, prometheus.CounterValue, float64(m.WAL.BytesWritten))
}
