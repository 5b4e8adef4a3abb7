package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/rickgao/consensus-export/internal/download"
)

const namespace = "consensus_export"

// Recorder collects run metrics in a private registry.
type Recorder struct {
	registry *prometheus.Registry

	tasks    *prometheus.CounterVec
	files    prometheus.Counter
	bytes    prometheus.Counter
	duration prometheus.Gauge
	lastRun  prometheus.Gauge
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Export tasks by outcome.",
		}, []string{"outcome"}),
		files: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_written_total",
			Help:      "Result files written to the output sink.",
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_written_total",
			Help:      "Decoded CSV bytes written to the output sink.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of the last run.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}

	r.registry.MustRegister(r.tasks, r.files, r.bytes, r.duration, r.lastRun)

	// Pre-create outcome series so zeros are pushed.
	for _, o := range []download.Outcome{download.Downloaded, download.Skipped, download.Failed} {
		r.tasks.WithLabelValues(o.String())
	}

	return r
}

// Observe implements download.Observer.
func (r *Recorder) Observe(res download.Result) {
	r.tasks.WithLabelValues(res.Outcome.String()).Inc()
	r.files.Add(float64(len(res.Files)))
	r.bytes.Add(float64(res.Bytes))
}

// Finish records run-level gauges from a completed summary.
func (r *Recorder) Finish(s *download.Summary) {
	r.duration.Set(s.Duration().Seconds())
	r.lastRun.Set(float64(s.FinishedAt.Unix()))
}

// Registry returns the registry holding the run's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Push replaces the job's metric group on the Pushgateway at url.
func (r *Recorder) Push(ctx context.Context, url, job string, grouping map[string]string) error {
	pusher := push.New(url, job).Gatherer(r.registry)
	for name, value := range grouping {
		pusher = pusher.Grouping(name, value)
	}

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
