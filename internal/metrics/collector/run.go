package collector

import (
	"github.com/prometheus/client_golang/prometheus"
)

type RunCollector struct {
	RunsTotal         *prometheus.CounterVec
	LastRunTimestamp  prometheus.Gauge
	LastRunDuration   prometheus.Gauge
	MediaIdentities   prometheus.Gauge
	MediaWarnings     prometheus.Gauge
	TorrentsTotal     prometheus.Gauge
	TorrentsEligible  prometheus.Gauge
	TorrentsRejected  *prometheus.GaugeVec
	TorrentsMatched   prometheus.Gauge
	TorrentsUnmatched prometheus.Gauge
	SkippedFiles      prometheus.Gauge
	RemovalsTotal     *prometheus.CounterVec
}

func NewRunCollector(r *prometheus.Registry) *RunCollector {
	m := &RunCollector{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seedsweep",
			Subsystem: "run",
			Name:      "total",
			Help:      "Total number of runs by final stage",
		}, []string{"stage"}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seedsweep",
			Subsystem: "run",
			Name:      "last_timestamp_seconds",
			Help:      "Unix time the last run started",
		}),
		LastRunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seedsweep",
			Subsystem: "run",
			Name:      "last_duration_seconds",
			Help:      "Duration of the last run",
		}),
		MediaIdentities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seedsweep",
			Subsystem: "media",
			Name:      "identities",
			Help:      "Distinct file identities found under the media roots",
		}),
		MediaWarnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seedsweep",
			Subsystem: "media",
			Name:      "warnings",
			Help:      "Entries that could not be read while indexing the media roots",
		}),
		TorrentsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seedsweep",
			Subsystem: "torrents",
			Name:      "total",
			Help:      "Torrents reported by the download client",
		}),
		TorrentsEligible: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seedsweep",
			Subsystem: "torrents",
			Name:      "eligible",
			Help:      "Torrents that passed the eligibility filters",
		}),
		TorrentsRejected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "seedsweep",
			Subsystem: "torrents",
			Name:      "rejected",
			Help:      "Torrents rejected by eligibility rule",
		}, []string{"reason"}),
		TorrentsMatched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seedsweep",
			Subsystem: "torrents",
			Name:      "matched",
			Help:      "Eligible torrents whose files are linked into the media library",
		}),
		TorrentsUnmatched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seedsweep",
			Subsystem: "torrents",
			Name:      "unmatched",
			Help:      "Eligible torrents with no file in the media library",
		}),
		SkippedFiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seedsweep",
			Subsystem: "torrents",
			Name:      "skipped_files",
			Help:      "Torrent files whose identity could not be resolved",
		}),
		RemovalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seedsweep",
			Subsystem: "removal",
			Name:      "total",
			Help:      "Total number of remove commands by result",
		}, []string{"result"}),
	}

	r.MustRegister(
		m.RunsTotal,
		m.LastRunTimestamp,
		m.LastRunDuration,
		m.MediaIdentities,
		m.MediaWarnings,
		m.TorrentsTotal,
		m.TorrentsEligible,
		m.TorrentsRejected,
		m.TorrentsMatched,
		m.TorrentsUnmatched,
		m.SkippedFiles,
		m.RemovalsTotal,
	)
	return m
}
