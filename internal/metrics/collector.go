package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/leozw/whois-lookup/internal/config"
	"github.com/leozw/whois-lookup/internal/core"
	"github.com/leozw/whois-lookup/internal/lookup"
	"github.com/leozw/whois-lookup/internal/normalize"
	"github.com/leozw/whois-lookup/internal/upstream"
)

// Collector owns the service metrics. It satisfies lookup.Recorder and
// normalize.Observer.
type Collector struct {
	config   *config.MimirConfig
	gatherer prometheus.Gatherer

	// Lookups
	lookupsTotal   *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec

	// Upstream
	upstreamErrors *prometheus.CounterVec

	// Normalização
	contactFallbacks *prometheus.CounterVec
}

// NewCollector registers the metrics on reg, which is also gathered for
// remote write.
func NewCollector(cfg config.MimirConfig, reg *prometheus.Registry) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		config:   &cfg,
		gatherer: reg,

		lookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whois_lookups_total",
				Help: "Total number of lookups by info type and outcome",
			},
			[]string{"info_type", "outcome"},
		),

		lookupDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "whois_lookup_duration_seconds",
				Help:    "Duration of lookups in seconds, upstream fetch included",
				Buckets: []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"info_type", "outcome"},
		),

		upstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whois_upstream_errors_total",
				Help: "Upstream fetch failures by provider and kind",
			},
			[]string{"provider", "kind"},
		),

		contactFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whois_contact_generic_fallback_total",
				Help: "Contact roles resolved from the generic registrant block",
			},
			[]string{"role"},
		),
	}
}

func (c *Collector) ObserveLookup(infoType core.InfoType, outcome lookup.Outcome, elapsed time.Duration) {
	c.lookupsTotal.WithLabelValues(string(infoType), string(outcome)).Inc()
	c.lookupDuration.WithLabelValues(string(infoType), string(outcome)).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveUpstreamError(provider string, kind upstream.Kind) {
	if kind == "" {
		kind = "unknown"
	}
	c.upstreamErrors.WithLabelValues(provider, string(kind)).Inc()
}

func (c *Collector) ObserveContactFallback(role normalize.Role) {
	c.contactFallbacks.WithLabelValues(string(role)).Inc()
}

var (
	_ lookup.Recorder    = (*Collector)(nil)
	_ normalize.Observer = (*Collector)(nil)
)
