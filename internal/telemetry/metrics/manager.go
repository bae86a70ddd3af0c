package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterActivities          *prometheus.CounterVec
	CounterActivityFailures    *prometheus.CounterVec
	CounterDispatchDropped     *prometheus.CounterVec
	CounterDuplicateEvents     prometheus.Counter
	CounterBadgesUnlocked      *prometheus.CounterVec
	CounterLevelUps            *prometheus.CounterVec
	CounterReconciled          *prometheus.CounterVec

	// gauges
	GaugeRequests      prometheus.Gauge
	GaugeLifeSignal    prometheus.Gauge
	GaugeDispatchQueue prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
	HistogramRecordDuration  *prometheus.HistogramVec
	HistReconcileDuration    prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("befit", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("befit", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterActivities := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "activities_recorded",
		Help:      "The total number of recorded activity events",
	}, []string{"kind"})
	counterActivityFailures := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "activity_failures",
		Help:      "The total number of activity events that failed to be recorded",
	}, []string{"kind"})
	counterDispatchDropped := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "dispatch_dropped",
		Help:      "Activity events dropped because the dispatch queue was full or closed",
	}, []string{"kind"})
	counterDuplicateEvents := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "duplicate_events",
		Help:      "Activity events rejected by idempotency key",
	})
	counterBadgesUnlocked := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "badges_unlocked",
		Help:      "The total number of unlocked badges",
	}, []string{"badge"})
	counterLevelUps := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "level_ups",
		Help:      "The total number of level ups, by reached level",
	}, []string{"level"})
	counterReconciled := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "reconciled_records",
		Help:      "Progress records visited by the reconciler",
	}, []string{"result"})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})
	gaugeDispatchQueue := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "dispatch_queue_length",
		Help:      "Activity events waiting in the async dispatch queue",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histogramRecordDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "record_duration_seconds",
		Help:      "Duration of a single activity record transaction in seconds",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"kind"})
	histReconcileDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "reconcile_duration_seconds",
		Help:      "Total duration of a single reconcile run in seconds",
		Buckets:   []float64{0.01, 0.1, 1, 10, 60, 120, 300},
	})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterHandleRequestPanic:  counterHandleRequestPanic,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		CounterActivities:          counterActivities,
		CounterActivityFailures:    counterActivityFailures,
		CounterDispatchDropped:     counterDispatchDropped,
		CounterDuplicateEvents:     counterDuplicateEvents,
		CounterBadgesUnlocked:      counterBadgesUnlocked,
		CounterLevelUps:            counterLevelUps,
		CounterReconciled:          counterReconciled,
		GaugeRequests:              gaugeRequests,
		GaugeLifeSignal:            gaugeLifeSignal,
		GaugeDispatchQueue:         gaugeDispatchQueue,
		HistogramRequestDuration:   histogramRequestDuration,
		HistogramRecordDuration:    histogramRecordDuration,
		HistReconcileDuration:      histReconcileDuration,
	}
}
