// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics is a process-wide meter facade. Meters are no-ops until
// InitializePrometheusMetrics is called.
package metrics

import (
	"sync"
	"sync/atomic"
)

var backend atomic.Pointer[Metrics]

func init() {
	use(noopMetrics{})
}

func use(m Metrics) {
	backend.Store(&m)
}

func current() Metrics {
	return *backend.Load()
}

// Metrics creates meters, returning the existing one when the name is taken.
type Metrics interface {
	GetOrCreateCountMeter(name string) CountMeter
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter
}

// BucketSettlement buckets epoch settlement durations in milliseconds.
var BucketSettlement = []int64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}

type CountMeter interface {
	Add(int64)
}

type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

type HistogramMeter interface {
	Observe(int64)
}

func Counter(name string) CountMeter {
	return current().GetOrCreateCountMeter(name)
}

func CounterVec(name string, labels []string) CountVecMeter {
	return current().GetOrCreateCountVecMeter(name, labels)
}

func Gauge(name string) GaugeMeter {
	return current().GetOrCreateGaugeMeter(name)
}

func Histogram(name string, buckets []int64) HistogramMeter {
	return current().GetOrCreateHistogramMeter(name, buckets)
}

// LazyLoad defers creating a meter to its first use, so package level meter
// variables pick up the backend installed at startup.
func LazyLoad[T any](f func() T) func() T {
	var (
		once  sync.Once
		meter T
	)
	return func() T {
		once.Do(func() { meter = f() })
		return meter
	}
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return Histogram(name, buckets) })
}
