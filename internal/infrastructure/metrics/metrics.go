// Package metrics defines the Prometheus instrumentation for the ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Ledger metrics
	EntriesPosted   prometheus.Counter
	EntriesEdited   prometheus.Counter
	EntriesDeleted  prometheus.Counter
	LedgerRebuilds  prometheus.Counter
	RestampedRows   prometheus.Histogram
	CurrentBalance  prometheus.Gauge
	LedgerOpErrors  *prometheus.CounterVec
	VerifyRuns      *prometheus.CounterVec
	VerifyDuration  prometheus.Histogram
	DivergenceFound prometheus.Counter

	// Import/export metrics
	ImportRows    *prometheus.CounterVec
	ExportRecords *prometheus.CounterVec

	// Migration metrics
	MigratedRecords *prometheus.CounterVec
	SkippedRecords  *prometheus.CounterVec

	// Database metrics
	DBQueries  *prometheus.CounterVec
	DBDuration *prometheus.HistogramVec
	DBErrors   *prometheus.CounterVec

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EntriesPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medrep_entries_posted_total",
			Help: "Total number of ledger entries posted",
		}),
		EntriesEdited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medrep_entries_edited_total",
			Help: "Total number of ledger entries edited",
		}),
		EntriesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medrep_entries_deleted_total",
			Help: "Total number of ledger entries deleted",
		}),
		LedgerRebuilds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medrep_ledger_rebuilds_total",
			Help: "Total number of full ledger rebuilds",
		}),
		RestampedRows: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "medrep_restamped_rows",
			Help:    "Number of downstream balances re-stamped per mutation",
			Buckets: []float64{0, 1, 10, 100, 1000, 10000},
		}),
		CurrentBalance: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "medrep_current_balance",
			Help: "Running balance at the tail of the ledger",
		}),
		LedgerOpErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medrep_ledger_op_errors_total",
				Help: "Total number of failed ledger operations",
			},
			[]string{"operation"},
		),
		VerifyRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medrep_verify_runs_total",
				Help: "Total number of consistency verification runs",
			},
			[]string{"result"},
		),
		VerifyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "medrep_verify_duration_seconds",
			Help:    "Duration of consistency verification runs",
			Buckets: prometheus.DefBuckets,
		}),
		DivergenceFound: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medrep_divergence_found_total",
			Help: "Total number of balance divergences detected",
		}),
		ImportRows: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medrep_import_rows_total",
				Help: "Total number of imported rows",
			},
			[]string{"entity", "result"},
		),
		ExportRecords: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medrep_export_records_total",
				Help: "Total number of exported records",
			},
			[]string{"entity"},
		),
		MigratedRecords: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medrep_migrated_records_total",
				Help: "Total number of records copied between stores",
			},
			[]string{"table"},
		),
		SkippedRecords: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medrep_skipped_records_total",
				Help: "Total number of records skipped during migration",
			},
			[]string{"table"},
		),
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medrep_db_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "medrep_db_query_duration_seconds",
				Help:    "Duration of database queries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medrep_db_errors_total",
				Help: "Total number of database errors",
			},
			[]string{"operation"},
		),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medrep_cache_hits_total",
			Help: "Total number of balance cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medrep_cache_misses_total",
			Help: "Total number of balance cache misses",
		}),
	}
}
