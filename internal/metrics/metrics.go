package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "acctgen"

// Generation outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeNoOrg  = "no_organization"
	OutcomeFailed = "failed"
)

// Recorder owns a private registry so tests and multiple servers never clash
// on the global one.
type Recorder struct {
	registry     *prometheus.Registry
	generations  *prometheus.CounterVec
	hashed       prometheus.Counter
	hashDuration prometheus.Histogram
	pastes       *prometheus.CounterVec
	pastedRows   prometheus.Counter
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "SQL generation requests by outcome.",
		}, []string{"outcome"}),
		hashed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_hashed_total",
			Help:      "Passwords hashed for generated accounts.",
		}),
		hashDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "hash_batch_duration_seconds",
			Help:      "Time spent hashing one generation batch.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		pastes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pastes_total",
			Help:      "Clipboard pastes into the grid by role.",
		}, []string{"role"}),
		pastedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pasted_rows_total",
			Help:      "Rows written by clipboard pastes.",
		}),
	}
	r.registry.MustRegister(
		r.generations,
		r.hashed,
		r.hashDuration,
		r.pastes,
		r.pastedRows,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) Generation(outcome string) {
	if r == nil {
		return
	}
	r.generations.WithLabelValues(outcome).Inc()
}

func (r *Recorder) HashBatch(accounts int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.hashed.Add(float64(accounts))
	r.hashDuration.Observe(elapsed.Seconds())
}

func (r *Recorder) Paste(role string, rows int) {
	if r == nil {
		return
	}
	r.pastes.WithLabelValues(role).Inc()
	r.pastedRows.Add(float64(rows))
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
