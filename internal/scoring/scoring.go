// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scoring implements the Okapi BM25 query engine: read matching
// postings for a query's terms, score every candidate document, sort,
// and hand results to a visitor. See Params for the tunable constants
// and their defaults.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/okapisearch/okapi/internal/codec"
	"github.com/okapisearch/okapi/internal/lexical"
	"github.com/okapisearch/okapi/internal/store"
)

// ErrEmptyIndex is returned when scoring is attempted before any
// document has been indexed.
var ErrEmptyIndex = errors.New("scoring: index is empty")

// ErrBadQuery is returned when a query is neither a string nor a
// []string of pre-tokenized terms.
var ErrBadQuery = errors.New("scoring: query must be text or a term sequence")

// ErrPreconditionFailed is returned when the BM25 parameters fall
// outside their legal ranges, checked before any store reads.
var ErrPreconditionFailed = errors.New("scoring: BM25 parameters out of range")

// Params holds the three BM25 tuning constants, with the engine's
// documented defaults.
type Params struct {
	// B controls document-length normalization strength, in [0, 1].
	B float64
	// K1 controls document-side term-frequency saturation, >= 0.
	K1 float64
	// K3 controls query-side term-frequency saturation, >= 0.
	K3 float64
}

// DefaultParams returns the engine's documented default BM25 constants.
func DefaultParams() Params {
	return Params{B: 0.75, K1: 1.2, K3: 7}
}

// Validate checks the preconditions on p, returning ErrPreconditionFailed
// wrapped with the specific violation if any parameter is out of range.
func (p Params) Validate() error {
	if p.K1 < 0 {
		return fmt.Errorf("%w: K1 = %v must be >= 0", ErrPreconditionFailed, p.K1)
	}
	if p.K3 < 0 {
		return fmt.Errorf("%w: K3 = %v must be >= 0", ErrPreconditionFailed, p.K3)
	}
	if p.B < 0 || p.B > 1 {
		return fmt.Errorf("%w: B = %v must be in [0, 1]", ErrPreconditionFailed, p.B)
	}
	return nil
}

// Result is one ranked hit returned by Search.
type Result struct {
	CallerKey string
	Score     float64
}

// Visitor is called once per ranked result, in descending score order
// (ties broken by ascending doc id). Returning stop=true aborts further
// emission; the scoring pass itself has already completed by then.
type Visitor func(callerKey string, score float64, docID int) (stop bool)

// Scorer answers BM25 queries against a store using a shared lexical
// pipeline. It is stateless across calls: the per-query length cache
// lives only for the duration of one SearchWithCallback call.
type Scorer struct {
	s        store.Store
	pipeline *lexical.Pipeline
	params   Params
}

// New builds a Scorer. params is validated lazily on every query, not
// at construction, so a caller can still build a Scorer before deciding
// on overrides.
func New(s store.Store, pipeline *lexical.Pipeline, params Params) *Scorer {
	return &Scorer{s: s, pipeline: pipeline, params: params}
}

// SearchWithCallback resolves query (raw text, or a []string of
// pre-tokenized terms) into term frequencies, scores every document
// with at least one matching term, and invokes visit for each result in
// ranked order until visit returns true or results are exhausted.
func (sc *Scorer) SearchWithCallback(ctx context.Context, query any, visit Visitor) error {
	terms, err := sc.resolveQueryTerms(query)
	if err != nil {
		return err
	}

	if err := sc.params.Validate(); err != nil {
		return err
	}

	qc := countQueryTerms(terms)
	T := len(qc)

	globalValue, found, err := sc.s.Get(ctx, codec.GlobalKey)
	if err != nil {
		return fmt.Errorf("scoring: read global record: %w", err)
	}
	if !found {
		return ErrEmptyIndex
	}
	g, err := codec.DecodeGlobal(globalValue)
	if err != nil {
		return fmt.Errorf("scoring: decode global record: %w", err)
	}
	if g.DocCount == 0 || T == 0 {
		return nil
	}
	lAvg := float64(g.TotalTerms) / float64(g.DocCount)

	scores := make(map[int]float64)
	lenCache := make(map[int]int)

	for _, term := range orderedKeys(qc) {
		qf := qc[term]
		if err := sc.accumulateTerm(ctx, term, qf, float64(g.DocCount), lAvg, scores, lenCache); err != nil {
			return err
		}
	}

	if T > 0 {
		for id := range scores {
			scores[id] /= float64(T)
		}
	}

	return sc.emit(ctx, scores, visit)
}

// accumulateTerm reads the term record for term (a no-op if it is
// absent from the index) and accumulates its contribution to every
// matching document's score.
func (sc *Scorer) accumulateTerm(ctx context.Context, term string, qf int, N, lAvg float64, scores map[int]float64, lenCache map[int]int) error {
	value, found, err := sc.s.Get(ctx, term)
	if err != nil {
		return fmt.Errorf("scoring: read term record %q: %w", term, err)
	}
	if !found {
		return nil
	}
	rec, err := codec.DecodeTermRecord(term, value)
	if err != nil {
		return fmt.Errorf("scoring: %w", err)
	}

	df := len(rec.Postings)
	if df == 0 {
		return nil
	}
	idf := math.Log(N / float64(df))
	qtf := float64(qf) * (sc.params.K3 + 1) / (float64(qf) + sc.params.K3)

	for _, p := range rec.Postings {
		L, err := sc.documentLength(ctx, p.DocID, lenCache)
		if err != nil {
			return err
		}
		ell := (1 - sc.params.B) + sc.params.B*float64(L)/lAvg
		tf := float64(p.Count) * (sc.params.K1 + 1) / (float64(p.Count) + sc.params.K1*ell)
		scores[p.DocID] += tf * idf * qtf
	}
	return nil
}

// documentLength returns docSize for docID, consulting and populating
// lenCache so repeated postings for the same document in other terms'
// accumulation don't re-read the per-document record.
func (sc *Scorer) documentLength(ctx context.Context, docID int, lenCache map[int]int) (int, error) {
	if L, ok := lenCache[docID]; ok {
		return L, nil
	}
	key := codec.DocumentKey(docID)
	value, found, err := sc.s.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("scoring: read per-document record %d: %w", docID, err)
	}
	if !found {
		return 0, &codec.CorruptionError{Key: key, Reason: "posting references missing per-document record"}
	}
	size, err := codec.DecodeDocSize(key, value)
	if err != nil {
		return 0, fmt.Errorf("scoring: %w", err)
	}
	lenCache[docID] = size
	return size, nil
}

// emit sorts the scored doc ids by (-score, docID) and invokes visit
// with each one's caller key until visit signals stop.
func (sc *Scorer) emit(ctx context.Context, scores map[int]float64, visit Visitor) error {
	ids := make([]int, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		si, sj := scores[ids[i]], scores[ids[j]]
		if si != sj {
			return si > sj
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		key := codec.DocumentKey(id)
		value, found, err := sc.s.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("scoring: read per-document record %d: %w", id, err)
		}
		if !found {
			return &codec.CorruptionError{Key: key, Reason: "scored doc id has no per-document record"}
		}
		callerKey, err := codec.DecodeCallerKey(key, value)
		if err != nil {
			return fmt.Errorf("scoring: %w", err)
		}
		if stop := visit(callerKey, scores[id], id); stop {
			return nil
		}
	}
	return nil
}

// resolveQueryTerms implements §4.E step 1: raw text runs the lexical
// pipeline; a []string is used as-is; anything else is a programmer
// error.
func (sc *Scorer) resolveQueryTerms(query any) ([]string, error) {
	switch q := query.(type) {
	case string:
		return sc.pipeline.RunText(q), nil
	case []string:
		return q, nil
	default:
		return nil, ErrBadQuery
	}
}

// countQueryTerms builds the qc map (§4.E step 2).
func countQueryTerms(terms []string) map[string]int {
	qc := make(map[string]int, len(terms))
	for _, t := range terms {
		qc[t]++
	}
	return qc
}

// orderedKeys returns qc's keys in a fixed, deterministic order (sorted
// lexically) so that accumulation order — and therefore floating-point
// summation order within a single document's score — is reproducible
// across runs.
func orderedKeys(qc map[string]int) []string {
	keys := make([]string, 0, len(qc))
	for k := range qc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Search is a convenience wrapper over SearchWithCallback: it collects
// up to limit results (0 or negative means unlimited) into an ordered
// slice.
func (sc *Scorer) Search(ctx context.Context, query any, limit int) ([]Result, error) {
	var results []Result
	err := sc.SearchWithCallback(ctx, query, func(callerKey string, score float64, docID int) bool {
		results = append(results, Result{CallerKey: callerKey, Score: score})
		return limit > 0 && len(results) >= limit
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
