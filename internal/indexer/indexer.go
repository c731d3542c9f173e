// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package indexer turns a (caller key, text) pair into the set of term
// and per-document record writes that make it searchable: run the
// lexical pipeline, count terms, allocate a doc id, and read-modify-write
// every touched term record plus the new per-document record.
package indexer

import (
	"context"
	"fmt"

	"github.com/okapisearch/okapi/internal/codec"
	"github.com/okapisearch/okapi/internal/lexical"
	"github.com/okapisearch/okapi/internal/registry"
	"github.com/okapisearch/okapi/internal/store"
)

// Indexer writes documents into a store using a fixed lexical pipeline
// and a registry for id allocation and global bookkeeping.
type Indexer struct {
	s        store.Store
	reg      *registry.Registry
	pipeline *lexical.Pipeline
}

// New builds an Indexer. s and reg must share the same underlying store.
func New(s store.Store, reg *registry.Registry, pipeline *lexical.Pipeline) *Indexer {
	return &Indexer{s: s, reg: reg, pipeline: pipeline}
}

// IndexDocument runs text through the lexical pipeline, allocates a doc
// id for callerKey, and writes the resulting postings and per-document
// record. It fails with registry.ErrAlreadyIndexed, unchanged, if
// callerKey has already been indexed; it performs no writes in that
// case because allocation aborts before any record is touched.
//
// Per §4.D, a document that reduces to zero terms (e.g. all stop words)
// is still allocated a doc id and counted in docCount; it simply
// contributes no postings.
//
// IndexDocument is not safe to call concurrently for different documents
// against the same store: Tokenize is pure and may run in parallel, but
// WriteDocument performs a read-modify-write on the global record and on
// every touched term record, and concurrent callers can race each other
// (see Engine's write lock in the root package). Callers needing
// concurrent ingestion should call Tokenize in parallel and serialize
// WriteDocument themselves.
func (ix *Indexer) IndexDocument(ctx context.Context, callerKey, text string) error {
	docSize, termCounts := ix.Tokenize(text)
	return ix.WriteDocument(ctx, callerKey, docSize, termCounts)
}

// Tokenize runs text through the lexical pipeline and returns its
// document length and per-term counts in first-discovery order. It
// touches no store state, so unlike WriteDocument it is safe to call
// concurrently.
func (ix *Indexer) Tokenize(text string) (docSize int, termCounts []codec.TermCount) {
	terms := ix.pipeline.RunText(text)
	counts, order := countTerms(terms)

	termCounts = make([]codec.TermCount, 0, len(order))
	for _, term := range order {
		termCounts = append(termCounts, codec.TermCount{Term: term, Count: counts[term]})
	}
	return len(terms), termCounts
}

// WriteDocument allocates a doc id for callerKey and writes the given
// per-term counts and per-document record. It performs a
// read-modify-write against the global record and every touched term
// record, so callers must serialize WriteDocument calls against the same
// store (Engine does this with a single writer lock; see IndexDocument).
func (ix *Indexer) WriteDocument(ctx context.Context, callerKey string, docSize int, termCounts []codec.TermCount) error {
	docID, err := ix.reg.Allocate(ctx, callerKey, docSize)
	if err != nil {
		return err
	}

	for _, tc := range termCounts {
		if err := ix.appendPosting(ctx, tc.Term, docID, tc.Count); err != nil {
			return fmt.Errorf("indexer: write term %q for doc %d: %w", tc.Term, docID, err)
		}
	}

	docValue := codec.EncodeDocumentRecord(termCounts, docSize, callerKey)
	if err := ix.s.Put(ctx, codec.DocumentKey(docID), docValue); err != nil {
		return fmt.Errorf("indexer: write per-document record for doc %d: %w", docID, err)
	}
	return nil
}

// appendPosting reads the existing term record (if any), appends one
// posting for docID with the given in-document count, and writes the
// result back.
func (ix *Indexer) appendPosting(ctx context.Context, term string, docID, count int) error {
	var existing codec.TermRecord
	value, found, err := ix.s.Get(ctx, term)
	if err != nil {
		return fmt.Errorf("read existing term record: %w", err)
	}
	if found {
		existing, err = codec.DecodeTermRecord(term, value)
		if err != nil {
			return err
		}
	}

	updated := codec.AppendPosting(existing, docID, count)
	if err := ix.s.Put(ctx, term, codec.EncodeTermRecord(updated)); err != nil {
		return fmt.Errorf("write term record: %w", err)
	}
	return nil
}

// countTerms builds a term->count map from an ordered term list while
// also returning the terms in first-discovery order, so downstream
// writes are deterministic and byte-stable across runs (§4.D step 2).
func countTerms(terms []string) (counts map[string]int, order []string) {
	counts = make(map[string]int, len(terms))
	for _, t := range terms {
		if _, seen := counts[t]; !seen {
			order = append(order, t)
		}
		counts[t]++
	}
	return counts, order
}
