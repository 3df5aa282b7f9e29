// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package watcher

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// watcherMetrics holds the Prometheus metrics for the file watcher.
type watcherMetrics struct {
	once sync.Once

	reindexTotal   *prometheus.CounterVec
	reindexSeconds *prometheus.HistogramVec
}

var metrics watcherMetrics

func (m *watcherMetrics) init() {
	m.once.Do(func() {
		m.reindexTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "synthia_watcher_reindex_total",
			Help: "Debounced re-index runs triggered by the file watcher",
		}, []string{"language"})
		m.reindexSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "synthia_watcher_reindex_seconds",
			Help:    "Duration of watcher-triggered re-index runs",
			Buckets: prometheus.DefBuckets,
		}, []string{"language"})

		prometheus.MustRegister(m.reindexTotal, m.reindexSeconds)
	})
}

func recordReindex(language string, d time.Duration) {
	metrics.init()
	metrics.reindexTotal.WithLabelValues(language).Inc()
	metrics.reindexSeconds.WithLabelValues(language).Observe(d.Seconds())
}
