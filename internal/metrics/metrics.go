// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package metrics holds the engine's Prometheus collectors. They are
// package-level vars registered with the default registry at process
// start via promauto, the way the engine's ambient stack does it
// elsewhere; server/ exposes them over /metrics with promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DocsIndexedTotal counts successful IndexDocument calls.
	DocsIndexedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "okapi",
		Subsystem: "index",
		Name:      "docs_indexed_total",
		Help:      "Total documents successfully indexed",
	})

	// IndexRejectedTotal counts IndexDocument calls rejected by reason
	// (e.g. "already_indexed").
	IndexRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "okapi",
		Subsystem: "index",
		Name:      "rejected_total",
		Help:      "Total documents rejected during indexing, by reason",
	}, []string{"reason"})

	// QueryLatencySeconds measures SearchWithCallback wall-clock time.
	QueryLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "okapi",
		Subsystem: "query",
		Name:      "latency_seconds",
		Help:      "Search latency from query resolution through result emission",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	// QueryResultsCount observes the number of hits returned per query.
	QueryResultsCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "okapi",
		Subsystem: "query",
		Name:      "results_count",
		Help:      "Number of ranked results returned per search",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	})

	// IndexSizeDocs tracks the current document count (§3 global record's
	// docCount), refreshed after every mutating operation.
	IndexSizeDocs = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "okapi",
		Subsystem: "index",
		Name:      "size_docs",
		Help:      "Current number of documents in the index",
	})
)
