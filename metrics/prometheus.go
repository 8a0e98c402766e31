// File: metrics/prometheus.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Recorder = (*Prometheus)(nil)

// Prometheus holds the counters exposed on /metrics.
type Prometheus struct {
	registry      *prometheus.Registry
	loginAttempts *prometheus.CounterVec
	registrations prometheus.Counter
	catalogEvents *prometheus.CounterVec
}

// NewPrometheus registers the application counters plus Go and process
// collectors on a private registry.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		loginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "car_showcase_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		registrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "car_showcase_registrations_total",
			Help: "Accounts created through registration",
		}),
		catalogEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "car_showcase_catalog_changes_total",
			Help: "Catalog mutations by entity and action",
		}, []string{"entity", "action"}),
	}
}

func (p *Prometheus) LoginAttempt(outcome string) {
	p.loginAttempts.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) Registration() {
	p.registrations.Inc()
}

func (p *Prometheus) CatalogChange(entity, action string) {
	p.catalogEvents.WithLabelValues(entity, action).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
