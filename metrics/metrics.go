// Package metrics exposes Prometheus collectors for learning path runs, the
// agent's tool calls and the model client's requests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spetersoncode/learnpath/client"
	"github.com/spetersoncode/learnpath/event"
	"github.com/spetersoncode/learnpath/model"
)

const namespace = "learnpath"

// Metrics holds the collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	runsInFlight  prometheus.Gauge
	steps         prometheus.Counter
	toolCalls     *prometheus.CounterVec
	toolDuration  *prometheus.HistogramVec
	tokens        *prometheus.CounterVec
	modelRequests *prometheus.CounterVec
	modelLatency  *prometheus.HistogramVec
	modelRetries  *prometheus.CounterVec
	modelCost     *prometheus.CounterVec
}

// New registers every collector, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Learning path runs by outcome.",
		}, []string{"status"}), // completed | failed | rejected
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of learning path runs.",
			Buckets:   []float64{5, 15, 30, 60, 120, 300, 600},
		}),
		runsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "runs_in_flight",
			Help:      "Runs currently executing.",
		}),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_steps_total",
			Help:      "Agent loop iterations.",
		}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool invocations by tool and outcome.",
		}, []string{"tool", "outcome"}), // ok | error
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "Tool invocation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_tokens_total",
			Help:      "Model tokens consumed.",
		}, []string{"provider", "direction"}), // input | output
		modelRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_requests_total",
			Help:      "Model requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		modelLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_request_duration_seconds",
			Help:      "Model request latency including retries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		modelRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_retries_total",
			Help:      "Model request retries.",
		}, []string{"provider"}),
		modelCost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_cost_usd_total",
			Help:      "Estimated model spend in USD, for models with known pricing.",
		}, []string{"provider", "model"}),
	}
	m.Registry.MustRegister(
		m.runs, m.runDuration, m.runsInFlight, m.steps,
		m.toolCalls, m.toolDuration,
		m.tokens, m.modelRequests, m.modelLatency, m.modelRetries, m.modelCost,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// RunRejected counts a submission refused before the runner started.
func (m *Metrics) RunRejected() {
	m.runs.WithLabelValues("rejected").Inc()
}

// RunStarted marks a run in flight. The returned func records its outcome.
func (m *Metrics) RunStarted() func(err error) {
	start := time.Now()
	m.runsInFlight.Inc()
	return func(err error) {
		m.runsInFlight.Dec()
		m.runDuration.Observe(time.Since(start).Seconds())
		status := "completed"
		if err != nil {
			status = "failed"
		}
		m.runs.WithLabelValues(status).Inc()
	}
}

// ObserveAgent records an agent event. It can be passed directly as an
// event.Handler.
func (m *Metrics) ObserveAgent(e event.Event) {
	switch e.Type {
	case event.StepStart:
		m.steps.Inc()
	case event.ToolCallResult:
		if e.ToolCall == nil {
			return
		}
		outcome := "ok"
		if e.ToolResult != nil && e.ToolResult.IsError {
			outcome = "error"
		}
		m.toolCalls.WithLabelValues(e.ToolCall.Name, outcome).Inc()
		m.toolDuration.WithLabelValues(e.ToolCall.Name).Observe(e.Duration.Seconds())
	}
}

// ObserveClient records a model client event.
func (m *Metrics) ObserveClient(e client.Event) {
	provider := e.Provider.String()
	switch e.Type {
	case client.EventRequestComplete:
		m.modelRequests.WithLabelValues(provider, "ok").Inc()
		m.modelLatency.WithLabelValues(provider).Observe(e.Duration.Seconds())
		if e.Usage != nil {
			m.tokens.WithLabelValues(provider, "input").Add(float64(e.Usage.InputTokens))
			m.tokens.WithLabelValues(provider, "output").Add(float64(e.Usage.OutputTokens))
			if cm, ok := model.Lookup(e.Model); ok {
				m.modelCost.WithLabelValues(provider, e.Model).Add(cm.Cost(*e.Usage))
			}
		}
	case client.EventRequestError:
		m.modelRequests.WithLabelValues(provider, "error").Inc()
		m.modelLatency.WithLabelValues(provider).Observe(e.Duration.Seconds())
	case client.EventRetry:
		m.modelRetries.WithLabelValues(provider).Inc()
	}
}

// WatchClient drains ch into ObserveClient until it is closed.
func (m *Metrics) WatchClient(ch <-chan client.Event) {
	for e := range ch {
		m.ObserveClient(e)
	}
}
