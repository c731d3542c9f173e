// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tracing centralizes the engine's OpenTelemetry tracer so every
// package that needs a span pulls from the same named tracer instead of
// re-deriving "aleutian.okapi.<pkg>" at each call site.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var engineTracer = otel.Tracer("okapi.engine")

// Start begins a span named name under the engine's tracer. Callers must
// defer span.End().
func Start(ctx context.Context, name string) (context.Context, trace.Span) {
	return engineTracer.Start(ctx, name)
}

// DocAttrs builds the standard set of span attributes recorded around an
// indexing operation.
func DocAttrs(callerKey string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("caller_key", callerKey),
	}
}

// QueryAttrs builds the standard set of span attributes recorded around a
// search operation.
func QueryAttrs(resultCount int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("result_count", resultCount),
	}
}
