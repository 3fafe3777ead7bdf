package metrics

import (
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics exposes the registry the SDK collectors are registered on
type Metrics interface {
	Registry() *prometheus.Registry
}

type Prometheus struct {
	registry *prometheus.Registry
}

func New() *Prometheus {
	return &Prometheus{
		registry: prometheus.NewRegistry(),
	}
}

func (p *Prometheus) WithGoCollectorRuntimeMetrics() *Prometheus {
	p.registry.MustRegister(collectors.NewGoCollector(
		collectors.WithGoCollectorRuntimeMetrics(collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/.*")}),
	))
	return p
}

func (p *Prometheus) WithBuildInfoCollector() *Prometheus {
	p.registry.MustRegister(collectors.NewBuildInfoCollector())
	return p
}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
