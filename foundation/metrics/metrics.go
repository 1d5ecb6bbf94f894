// Package metrics provides Prometheus counters for the assist pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "call_assist"

type Metrics struct {
	registry *prometheus.Registry

	Utterances    prometheus.Counter
	GateMatches   prometheus.Counter
	GateMisses    prometheus.Counter
	EmptyQueries  prometheus.Counter
	Replies       *prometheus.CounterVec
	ReplyFailures prometheus.Counter
	ReplyLatency  prometheus.Histogram
	Handoffs      prometheus.Counter
	Handbacks     prometheus.Counter
	Facts         *prometheus.CounterVec
	ToolErrors    prometheus.Counter
	PublishErrors *prometheus.CounterVec
}

// New builds the full metric set on a private registry so two workers in one
// process never fight over collector registration.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		Utterances: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "utterances_total",
			Help:      "Total number of final caller utterances transcribed",
		}),
		GateMatches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_matches_total",
			Help:      "Total number of utterances that triggered the wake gate",
		}),
		GateMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_misses_total",
			Help:      "Total number of utterances the gate let pass in silence",
		}),
		EmptyQueries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_queries_total",
			Help:      "Total number of wake phrases heard with no question attached",
		}),
		Replies: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Total number of assistant replies spoken",
		}, []string{"persona"}),
		ReplyFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reply_failures_total",
			Help:      "Total number of queries answered with the fallback reply",
		}),
		ReplyLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reply_latency_seconds",
			Help:      "Time from accepted query to spoken reply",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		Handoffs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handoffs_total",
			Help:      "Total number of delegations from lead to specialist",
		}),
		Handbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handbacks_total",
			Help:      "Total number of returns from specialist to lead",
		}),
		Facts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "facts_total",
			Help:      "Total number of facts captured from tool calls",
		}, []string{"kind"}),
		ToolErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_errors_total",
			Help:      "Total number of rejected or malformed tool calls",
		}),
		PublishErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Total number of failed deliveries to downstream sinks",
		}, []string{"sink"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr in the background. The caller owns the
// returned server and shuts it down with the rest of the process.
func (m *Metrics) Serve(addr string, logger *zap.SugaredLogger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infow("metrics: serving", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorw("metrics: server failed", "ERROR", err)
		}
	}()

	return server
}
