// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package okapi implements a persistent, free-text BM25 search engine: a
// pluggable lexical pipeline turns text into index terms, a flat ordered
// key-value store holds the inverted index, and a query engine ranks
// documents by Okapi BM25. See Engine for the primary entry point.
package okapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okapisearch/okapi/internal/codec"
	"github.com/okapisearch/okapi/internal/indexer"
	"github.com/okapisearch/okapi/internal/lexical"
	"github.com/okapisearch/okapi/internal/metrics"
	"github.com/okapisearch/okapi/internal/registry"
	"github.com/okapisearch/okapi/internal/scoring"
	"github.com/okapisearch/okapi/internal/store"
	"github.com/okapisearch/okapi/internal/tracing"
)

// Result is one ranked search hit: the caller key supplied at indexing
// time, and its BM25 score for the query that produced it.
type Result struct {
	CallerKey string
	Score     float64
}

// Visitor is invoked once per ranked result, in descending score order
// (ties broken by ascending internal doc id). Returning true stops
// further emission.
type Visitor func(callerKey string, score float64) (stop bool)

// Engine is the top-level handle to a persistent BM25 index: it wires a
// Store, the lexical pipeline, the document registry, the indexer, and
// the scorer into the operations described by the package doc. The zero
// value is not usable; construct one with Open.
type Engine struct {
	cfg      Config
	s        store.Store
	reg      *registry.Registry
	ix       *indexer.Indexer
	sc       *scoring.Scorer
	pipeline *lexical.Pipeline
	logger   *slog.Logger

	// writeMu serializes the allocate-and-write step of IndexDocument.
	// Tokenizing is pure and runs unlocked even under IndexBatch's
	// errgroup fan-out; only the read-modify-write against the global
	// record and term records needs the single-writer model §5
	// describes, since neither the Store interface nor MemoryStore/
	// BadgerStore provide atomic read-modify-write across keys.
	writeMu sync.Mutex
}

// Open builds and opens an Engine from cfg. The caller must Close it when
// done.
func Open(ctx context.Context, cfg Config) (*Engine, error) {
	cfg.normalize()
	if err := cfg.validateBM25(); err != nil {
		return nil, err
	}

	pipeline, err := cfg.buildPipeline()
	if err != nil {
		return nil, fmt.Errorf("okapi: build pipeline: %w", err)
	}

	s, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.Open(ctx); err != nil {
		return nil, fmt.Errorf("okapi: open store: %w", err)
	}

	reg := registry.New(s)
	e := &Engine{
		cfg:      cfg,
		s:        s,
		reg:      reg,
		ix:       indexer.New(s, reg, pipeline),
		sc:       scoring.New(s, pipeline, cfg.scoringParams()),
		pipeline: pipeline,
		logger:   slog.Default(),
	}
	return e, nil
}

func newStore(cfg Config) (store.Store, error) {
	switch cfg.Store.Kind {
	case StoreKindBadger:
		return store.NewBadgerStore(cfg.Store.Path, slog.Default()), nil
	case StoreKindMemory, "":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("okapi: unknown store kind %q", cfg.Store.Kind)
	}
}

// Close releases the underlying store's resources.
func (e *Engine) Close(ctx context.Context) error {
	return e.s.Close(ctx)
}

// Clear removes every indexed document and resets id allocation. A
// subsequent Search returns ErrEmptyIndex until IndexDocument is called
// again.
func (e *Engine) Clear(ctx context.Context) error {
	ctx, span := tracing.Start(ctx, "okapi.Engine.Clear")
	defer span.End()

	if err := e.reg.Clear(ctx); err != nil {
		return fmt.Errorf("okapi: clear: %w", err)
	}
	metrics.IndexSizeDocs.Set(0)
	return nil
}

// IndexDocument tokenizes text, allocates a document id for callerKey,
// and writes the resulting postings. If callerKey has already been
// indexed it returns an error wrapping ErrAlreadyIndexed.
func (e *Engine) IndexDocument(ctx context.Context, callerKey, text string) error {
	ctx, span := tracing.Start(ctx, "okapi.Engine.IndexDocument")
	defer span.End()
	span.SetAttributes(tracing.DocAttrs(callerKey)...)

	err := e.writeDocument(ctx, callerKey, text)
	if err != nil {
		if errors.Is(err, registry.ErrAlreadyIndexed) {
			metrics.IndexRejectedTotal.WithLabelValues("already_indexed").Inc()
			return fmt.Errorf("%w: %s", ErrAlreadyIndexed, callerKey)
		}
		return err
	}

	metrics.DocsIndexedTotal.Inc()
	if g, gerr := e.reg.Globals(ctx); gerr == nil {
		metrics.IndexSizeDocs.Set(float64(g.DocCount))
	}
	return nil
}

// writeDocument tokenizes text without holding writeMu (pure, safe to
// run from many goroutines at once via IndexBatch), then serializes the
// registry-allocate-and-write step behind writeMu so two concurrent
// callers can never interleave the Get-then-Put pair that allocates a
// doc id or the Get-then-Put pair that appends a posting — both of
// which would otherwise race and corrupt the global record or a term
// record (duplicate doc ids, lost totalTerms increments, lost
// postings).
func (e *Engine) writeDocument(ctx context.Context, callerKey, text string) error {
	docSize, termCounts := e.ix.Tokenize(text)

	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return e.ix.WriteDocument(ctx, callerKey, docSize, termCounts)
}

// IndexBatch indexes many documents concurrently, returning the first
// error encountered. Each document's lexical pipeline runs in its own
// goroutine via an errgroup, but the actual store write is serialized
// behind Engine's single writer lock (see writeDocument) to match §5's
// single-threaded write model; concurrency here buys parallel
// tokenization, not parallel writes. docs maps caller key to text.
func (e *Engine) IndexBatch(ctx context.Context, docs map[string]string) error {
	ctx, span := tracing.Start(ctx, "okapi.Engine.IndexBatch")
	defer span.End()

	g, gctx := errgroup.WithContext(ctx)
	for callerKey, text := range docs {
		callerKey, text := callerKey, text
		g.Go(func() error {
			return e.IndexDocument(gctx, callerKey, text)
		})
	}
	return g.Wait()
}

// Search runs query (raw text or a pre-tokenized []string) and returns up
// to limit ranked results (0 or negative means unlimited).
func (e *Engine) Search(ctx context.Context, query any, limit int) ([]Result, error) {
	var results []Result
	err := e.SearchWithCallback(ctx, query, func(callerKey string, score float64) bool {
		results = append(results, Result{CallerKey: callerKey, Score: score})
		return limit > 0 && len(results) >= limit
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// SearchWithCallback resolves query, scores every matching document, and
// invokes visit for each in ranked order until visit returns true or
// results are exhausted. It translates the internal scoring and codec
// sentinel errors to the engine's public taxonomy.
func (e *Engine) SearchWithCallback(ctx context.Context, query any, visit Visitor) error {
	ctx, span := tracing.Start(ctx, "okapi.Engine.Search")
	defer span.End()

	start := time.Now()
	count := 0
	err := e.sc.SearchWithCallback(ctx, query, func(callerKey string, score float64, docID int) bool {
		count++
		return visit(callerKey, score)
	})
	metrics.QueryLatencySeconds.Observe(time.Since(start).Seconds())
	metrics.QueryResultsCount.Observe(float64(count))
	span.SetAttributes(tracing.QueryAttrs(count)...)

	if err != nil {
		return translateScoringError(err)
	}
	return nil
}

// translateScoringError maps internal/scoring and internal/codec sentinel
// errors onto this package's public ones, preserving the wrapped chain so
// errors.Is still matches the original cause via %w.
func translateScoringError(err error) error {
	switch {
	case errors.Is(err, scoring.ErrEmptyIndex):
		return fmt.Errorf("%w: %w", ErrEmptyIndex, err)
	case errors.Is(err, scoring.ErrBadQuery):
		return fmt.Errorf("%w: %w", ErrBadQuery, err)
	case errors.Is(err, scoring.ErrPreconditionFailed):
		return fmt.Errorf("%w: %w", ErrPreconditionFailed, err)
	}
	var ce *codec.CorruptionError
	if errors.As(err, &ce) {
		return fmt.Errorf("%w: %w", ErrCorruption, err)
	}
	return err
}
