// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package indexer

import (
	"context"
	"errors"
	"testing"

	"github.com/okapisearch/okapi/internal/codec"
	"github.com/okapisearch/okapi/internal/lexical"
	"github.com/okapisearch/okapi/internal/registry"
	"github.com/okapisearch/okapi/internal/store"
)

func newTestIndexer(t *testing.T) (*Indexer, store.Store, context.Context) {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemoryStore()
	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	reg := registry.New(s)
	p := lexical.NewDefault(nil)
	return New(s, reg, p), s, ctx
}

func TestIndexDocumentWritesPostingsAndDocRecord(t *testing.T) {
	ix, s, ctx := newTestIndexer(t)

	if err := ix.IndexDocument(ctx, "doc-1", "Hello world"); err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}

	docValue, found, err := s.Get(ctx, codec.DocumentKey(1))
	if err != nil || !found {
		t.Fatalf("per-document record missing: found=%v err=%v", found, err)
	}
	key, err := codec.DecodeCallerKey("docrec", docValue)
	if err != nil || key != "doc-1" {
		t.Errorf("caller key = %q, err = %v; want doc-1", key, err)
	}
	size, err := codec.DecodeDocSize("docrec", docValue)
	if err != nil || size != 2 {
		t.Errorf("docSize = %d, err = %v; want 2", size, err)
	}

	termValue, found, err := s.Get(ctx, "world")
	if err != nil || !found {
		t.Fatalf("term record for 'world' missing: found=%v err=%v", found, err)
	}
	rec, err := codec.DecodeTermRecord("world", termValue)
	if err != nil {
		t.Fatalf("decode term record: %v", err)
	}
	if len(rec.Postings) != 1 || rec.Postings[0] != (codec.Posting{DocID: 1, Count: 1}) {
		t.Errorf("postings for 'world' = %+v, want [{1 1}]", rec.Postings)
	}
}

func TestIndexDocumentMultipleOccurrencesOfSameTerm(t *testing.T) {
	ix, s, ctx := newTestIndexer(t)

	if err := ix.IndexDocument(ctx, "doc-1", "crazy crazy crazy world"); err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}

	termValue, _, err := s.Get(ctx, "crazi")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	rec, err := codec.DecodeTermRecord("crazi", termValue)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rec.Postings) != 1 || rec.Postings[0].Count != 3 {
		t.Errorf("postings = %+v, want single posting with count 3", rec.Postings)
	}
	if rec.CFreq != 3 {
		t.Errorf("cfreq = %d, want 3", rec.CFreq)
	}
}

func TestIndexDocumentAccumulatesAcrossDocuments(t *testing.T) {
	ix, s, ctx := newTestIndexer(t)

	ix.IndexDocument(ctx, "doc-1", "world")
	ix.IndexDocument(ctx, "doc-2", "world world")

	termValue, _, _ := s.Get(ctx, "world")
	rec, err := codec.DecodeTermRecord("world", termValue)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rec.Postings) != 2 {
		t.Fatalf("postings = %+v, want 2 entries", rec.Postings)
	}
	if rec.Postings[0] != (codec.Posting{DocID: 1, Count: 1}) {
		t.Errorf("posting[0] = %+v, want {1 1}", rec.Postings[0])
	}
	if rec.Postings[1] != (codec.Posting{DocID: 2, Count: 2}) {
		t.Errorf("posting[1] = %+v, want {2 2}", rec.Postings[1])
	}
	if rec.CFreq != 3 {
		t.Errorf("cfreq = %d, want 3", rec.CFreq)
	}
}

func TestIndexDocumentAllStopWordsStillAllocates(t *testing.T) {
	ix, s, ctx := newTestIndexer(t)

	if err := ix.IndexDocument(ctx, "doc-1", "The of and"); err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}

	docValue, found, err := s.Get(ctx, codec.DocumentKey(1))
	if err != nil || !found {
		t.Fatalf("per-document record missing: found=%v err=%v", found, err)
	}
	size, err := codec.DecodeDocSize("docrec", docValue)
	if err != nil || size != 0 {
		t.Errorf("docSize = %d, err = %v; want 0", size, err)
	}
}

func TestIndexDocumentAlreadyIndexedLeavesIndexUnchanged(t *testing.T) {
	ix, s, ctx := newTestIndexer(t)
	ix.IndexDocument(ctx, "doc-1", "hello world")

	before, _, _ := s.Get(ctx, "world")

	err := ix.IndexDocument(ctx, "doc-1", "a different body entirely")
	if !errors.Is(err, registry.ErrAlreadyIndexed) {
		t.Fatalf("error = %v, want ErrAlreadyIndexed", err)
	}

	after, _, _ := s.Get(ctx, "world")
	if before != after {
		t.Errorf("term record for 'world' changed after rejected re-index: before=%q after=%q", before, after)
	}
	if _, found, _ := s.Get(ctx, "entirely"); found {
		t.Error("rejected re-index must not write any new term records")
	}
}
