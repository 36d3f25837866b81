// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package ingestion

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsIngestion holds Prometheus metrics for the ingestion pipeline.
type metricsIngestion struct {
	once sync.Once

	filesProcessed   prometheus.Counter
	filesSkipped     prometheus.Counter
	chunksEmitted    prometheus.Counter
	parseWarnings    prometheus.Counter
	ingestionsTotal  prometheus.Counter
	ingestionErrors  prometheus.Counter

	cloneDuration  prometheus.Histogram
	walkDuration   prometheus.Histogram
	upsertDuration prometheus.Histogram
	totalDuration  prometheus.Histogram
}

var ingMetrics metricsIngestion

func (m *metricsIngestion) init() {
	m.once.Do(func() {
		m.filesProcessed = prometheus.NewCounter(prometheus.CounterOpts{Name: "autowiki_ing_files_processed_total", Help: "Files processed during ingestion"})
		m.filesSkipped = prometheus.NewCounter(prometheus.CounterOpts{Name: "autowiki_ing_files_skipped_total", Help: "Files skipped (unreadable, unsupported, non-UTF-8)"})
		m.chunksEmitted = prometheus.NewCounter(prometheus.CounterOpts{Name: "autowiki_ing_chunks_emitted_total", Help: "Chunks emitted by the chunker"})
		m.parseWarnings = prometheus.NewCounter(prometheus.CounterOpts{Name: "autowiki_ing_parse_warnings_total", Help: "Non-fatal parse warnings"})
		m.ingestionsTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "autowiki_ing_runs_total", Help: "Ingestion runs started"})
		m.ingestionErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "autowiki_ing_errors_total", Help: "Ingestion runs that failed"})

		buckets := []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}
		m.cloneDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "autowiki_ing_clone_seconds", Help: "git clone duration", Buckets: buckets})
		m.walkDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "autowiki_ing_walk_seconds", Help: "Repository walk + parse + chunk duration", Buckets: buckets})
		m.upsertDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "autowiki_ing_upsert_seconds", Help: "Vector store upsert duration", Buckets: buckets})
		m.totalDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "autowiki_ing_total_seconds", Help: "Total ingestion duration", Buckets: buckets})

		prometheus.MustRegister(
			m.filesProcessed, m.filesSkipped, m.chunksEmitted, m.parseWarnings,
			m.ingestionsTotal, m.ingestionErrors,
			m.cloneDuration, m.walkDuration, m.upsertDuration, m.totalDuration,
		)
	})
}
