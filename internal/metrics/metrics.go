// Package metrics records run statistics as Prometheus metrics and writes
// them in the node_exporter textfile format. Each run owns a private
// registry, so nothing leaks into the default one.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/KHajji/distle/internal/engine"
)

const namespace = "distle"

// Collector holds the metrics of one run.
type Collector struct {
	reg *prometheus.Registry

	samples     prometheus.Gauge
	pairs       prometheus.Counter
	overlayHits prometheus.Counter
	computed    prometheus.Counter
	truncated   prometheus.Counter
	chunks      prometheus.Counter
	chunkSize   prometheus.Gauge
	stage       *prometheus.GaugeVec
	lastRun     prometheus.Gauge
}

// NewCollector registers the run metrics on a fresh registry. labels are
// attached to every metric as constant labels.
func NewCollector(labels prometheus.Labels) *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Collector{
		reg: reg,
		samples: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "samples", ConstLabels: labels,
			Help: "Rows in the input matrix.",
		}),
		pairs: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pairs_total", ConstLabels: labels,
			Help: "Distance records emitted.",
		}),
		overlayHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "overlay_hits_total", ConstLabels: labels,
			Help: "Pairs resolved from precomputed distances.",
		}),
		computed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pairs_computed_total", ConstLabels: labels,
			Help: "Pairs resolved by comparing rows.",
		}),
		truncated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pairs_truncated_total", ConstLabels: labels,
			Help: "Computed pairs that reached the maximum distance.",
		}),
		chunks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "chunks_total", ConstLabels: labels,
			Help: "Row chunks processed.",
		}),
		chunkSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "chunk_size", ConstLabels: labels,
			Help: "Rows per chunk.",
		}),
		stage: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "stage_duration_seconds", ConstLabels: labels,
			Help: "Wall time per run stage.",
		}, []string{"stage"}),
		lastRun: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "last_run_timestamp_seconds", ConstLabels: labels,
			Help: "Unix time the run finished.",
		}),
	}
}

// ObserveSamples records the matrix size.
func (c *Collector) ObserveSamples(n int) { c.samples.Set(float64(n)) }

// ObserveStats adds the engine counters of a finished run.
func (c *Collector) ObserveStats(st engine.Stats) {
	c.pairs.Add(float64(st.Pairs))
	c.overlayHits.Add(float64(st.OverlayHits))
	c.computed.Add(float64(st.Computed))
	c.truncated.Add(float64(st.Truncated))
	c.chunks.Add(float64(st.Chunks))
	c.chunkSize.Set(float64(st.ChunkSize))
}

// ObserveStage records how long a stage took.
func (c *Collector) ObserveStage(stage string, d time.Duration) {
	c.stage.WithLabelValues(stage).Set(d.Seconds())
}

// WriteTextfile stamps the finish time and writes every metric to path
// atomically.
func (c *Collector) WriteTextfile(path string, now time.Time) error {
	c.lastRun.Set(float64(now.Unix()))
	return prometheus.WriteToTextfile(path, c.reg)
}
