// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vechain/stakepool/log"
)

const namespace = "stakepool"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics installs a prometheus backend registering on
// the returned registry. Later calls return the installed registry.
func InitializePrometheusMetrics() *prometheus.Registry {
	if p, ok := current().(*prometheusMetrics); ok {
		return p.registry
	}
	p := &prometheusMetrics{
		registry: prometheus.NewRegistry(),
		meters:   make(map[string]any),
	}
	use(p)
	return p.registry
}

type prometheusMetrics struct {
	registry *prometheus.Registry

	lock   sync.Mutex
	meters map[string]any
}

// getOrCreate returns the meter registered under name. A name reused for a
// different meter kind gets an unregistered meter.
func getOrCreate[T any](p *prometheusMetrics, name string, create func() (prometheus.Collector, T)) T {
	p.lock.Lock()
	defer p.lock.Unlock()

	if m, ok := p.meters[name]; ok {
		if meter, ok := m.(T); ok {
			return meter
		}
	}
	collector, meter := create()
	if err := p.registry.Register(collector); err != nil {
		logger.Warn("unable to register metric", "name", name, "error", err)
		return meter
	}
	p.meters[name] = meter
	return meter
}

func (p *prometheusMetrics) GetOrCreateCountMeter(name string) CountMeter {
	return getOrCreate(p, name, func() (prometheus.Collector, CountMeter) {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		return c, promCounter{c}
	})
}

func (p *prometheusMetrics) GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter {
	return getOrCreate(p, name, func() (prometheus.Collector, CountVecMeter) {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return c, promCounterVec{c}
	})
}

func (p *prometheusMetrics) GetOrCreateGaugeMeter(name string) GaugeMeter {
	return getOrCreate(p, name, func() (prometheus.Collector, GaugeMeter) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
		return g, promGauge{g}
	})
}

func (p *prometheusMetrics) GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter {
	return getOrCreate(p, name, func() (prometheus.Collector, HistogramMeter) {
		bounds := make([]float64, len(buckets))
		for i, b := range buckets {
			bounds[i] = float64(b)
		}
		h := prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: name, Buckets: bounds})
		return h, promHistogram{h}
	})
}

type promCounter struct{ c prometheus.Counter }

func (m promCounter) Add(i int64) { m.c.Add(float64(i)) }

type promCounterVec struct{ c *prometheus.CounterVec }

func (m promCounterVec) AddWithLabel(i int64, labels map[string]string) {
	m.c.With(labels).Add(float64(i))
}

type promGauge struct{ g prometheus.Gauge }

func (m promGauge) Add(i int64) { m.g.Add(float64(i)) }
func (m promGauge) Set(i int64) { m.g.Set(float64(i)) }

type promHistogram struct{ h prometheus.Histogram }

func (m promHistogram) Observe(i int64) { m.h.Observe(float64(i)) }
