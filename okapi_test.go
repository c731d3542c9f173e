// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package okapi

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func newTestEngine(t *testing.T) (*Engine, context.Context) {
	t.Helper()
	ctx := context.Background()
	e, err := Open(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { e.Close(ctx) })
	return e, ctx
}

// indexCorpus indexes the four-document corpus used throughout this test
// file, in order, with caller keys "1".."4".
func indexCorpus(t *testing.T, e *Engine, ctx context.Context) {
	t.Helper()
	docs := []string{
		"Hello world",
		"World in motion",
		"Cruel crazy beautiful world",
		"Hey crazy",
	}
	for i, text := range docs {
		callerKey := string(rune('1' + i))
		if err := e.IndexDocument(ctx, callerKey, text); err != nil {
			t.Fatalf("IndexDocument(%q): %v", callerKey, err)
		}
	}
}

func callerKeys(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.CallerKey
	}
	return out
}

func TestSearchCrazyMatchesDocuments4And3InOrder(t *testing.T) {
	e, ctx := newTestEngine(t)
	indexCorpus(t, e, ctx)

	results, err := e.Search(ctx, "Crazy", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	got := callerKeys(results)
	want := []string{"4", "3"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Search(\"Crazy\") callerKeys = %v, want %v", got, want)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("caller key 4 ('Hey crazy', shorter doc) should outscore caller key 3: %v vs %v",
			results[0].Score, results[1].Score)
	}
}

func TestSearchCraziedStemsToSameResultAsCrazy(t *testing.T) {
	e, ctx := newTestEngine(t)
	indexCorpus(t, e, ctx)

	crazy, err := e.Search(ctx, "Crazy", 10)
	if err != nil {
		t.Fatalf("Search(Crazy): %v", err)
	}
	crazied, err := e.Search(ctx, "crazied", 10)
	if err != nil {
		t.Fatalf("Search(crazied): %v", err)
	}

	if len(crazied) != len(crazy) {
		t.Fatalf("len(crazied results) = %d, want %d", len(crazied), len(crazy))
	}
	for i := range crazy {
		if crazied[i].CallerKey != crazy[i].CallerKey {
			t.Errorf("result[%d] callerKey = %q, want %q", i, crazied[i].CallerKey, crazy[i].CallerKey)
		}
		if crazied[i].Score != crazy[i].Score {
			t.Errorf("result[%d] score = %v, want %v (stemming should make these queries identical)",
				i, crazied[i].Score, crazy[i].Score)
		}
	}
}

func TestSearchTheStopWordReturnsNoResults(t *testing.T) {
	e, ctx := newTestEngine(t)
	indexCorpus(t, e, ctx)

	results, err := e.Search(ctx, "the", 10)
	if err != nil {
		t.Fatalf("Search(\"the\"): %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search(\"the\") = %+v, want no results", results)
	}
}

func TestSearchWorldRanksAllThreeMatchingDocuments(t *testing.T) {
	e, ctx := newTestEngine(t)
	indexCorpus(t, e, ctx)

	results, err := e.Search(ctx, "world", 10)
	if err != nil {
		t.Fatalf("Search(\"world\"): %v", err)
	}
	got := callerKeys(results)
	want := []string{"1", "2", "3"}
	if len(got) != 3 {
		t.Fatalf("Search(\"world\") callerKeys = %v, want 3 results", got)
	}
	for _, k := range want {
		found := false
		for _, g := range got {
			if g == k {
				found = true
			}
		}
		if !found {
			t.Errorf("Search(\"world\") = %v, missing caller key %q", got, k)
		}
	}
	// Caller keys 1 and 2 both reduce to a two-term document ("in" is a
	// stop word, so "World in motion" matches "Hello world" in length)
	// and so tie exactly on BM25 score for this single-term query; ties
	// break by ascending internal doc id, giving key "1" before key "2".
	// Caller key 3 ("Cruel crazy beautiful world") is the longest
	// document and so is penalized by length normalization, strictly
	// trailing the other two.
	if got[0] != "1" || got[1] != "2" || got[2] != "3" {
		t.Errorf("Search(\"world\") order = %v, want [1 2 3]", got)
	}
	if results[0].Score != results[1].Score {
		t.Errorf("caller keys 1 and 2 should tie exactly: %v vs %v", results[0].Score, results[1].Score)
	}
	if results[2].Score >= results[1].Score {
		t.Errorf("caller key 3 should score strictly lower than the tie: %v vs %v", results[2].Score, results[1].Score)
	}
}

func TestClearThenSearchSurfacesEmptyIndex(t *testing.T) {
	e, ctx := newTestEngine(t)
	indexCorpus(t, e, ctx)

	if err := e.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	_, err := e.Search(ctx, "anything", 10)
	if !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("Search after Clear error = %v, want ErrEmptyIndex", err)
	}
}

func TestIndexDocumentAlreadyIndexed(t *testing.T) {
	e, ctx := newTestEngine(t)
	if err := e.IndexDocument(ctx, "doc-1", "hello world"); err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}
	err := e.IndexDocument(ctx, "doc-1", "a different body")
	if !errors.Is(err, ErrAlreadyIndexed) {
		t.Errorf("error = %v, want ErrAlreadyIndexed", err)
	}
}

func TestSearchBeforeAnyIndexingIsEmptyIndex(t *testing.T) {
	e, ctx := newTestEngine(t)
	_, err := e.Search(ctx, "anything", 10)
	if !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("error = %v, want ErrEmptyIndex", err)
	}
}

func TestSearchBadQueryType(t *testing.T) {
	e, ctx := newTestEngine(t)
	e.IndexDocument(ctx, "doc-1", "hello world")
	_, err := e.Search(ctx, 12345, 10)
	if !errors.Is(err, ErrBadQuery) {
		t.Errorf("error = %v, want ErrBadQuery", err)
	}
}

func TestIndexBatchIndexesAllDocumentsConcurrently(t *testing.T) {
	e, ctx := newTestEngine(t)
	docs := map[string]string{
		"a": "hello world",
		"b": "world in motion",
		"c": "cruel crazy beautiful world",
	}
	if err := e.IndexBatch(ctx, docs); err != nil {
		t.Fatalf("IndexBatch: %v", err)
	}

	results, err := e.Search(ctx, "world", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("len(results) = %d, want 3", len(results))
	}
}

func TestIndexBatchAllocatesUniqueDocIDsAndConsistentTotals(t *testing.T) {
	e, ctx := newTestEngine(t)

	const n = 64
	docs := make(map[string]string, n)
	wantTotalTerms := 0
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("doc-%d", i)
		text := fmt.Sprintf("term%d shared", i)
		docs[key] = text
		wantTotalTerms += 2
	}

	if err := e.IndexBatch(ctx, docs); err != nil {
		t.Fatalf("IndexBatch: %v", err)
	}

	g, err := e.reg.Globals(ctx)
	if err != nil {
		t.Fatalf("Globals: %v", err)
	}
	if g.DocCount != n {
		t.Errorf("DocCount = %d, want %d (a lost write here means concurrent allocations collided)", g.DocCount, n)
	}
	if g.TotalTerms != wantTotalTerms {
		t.Errorf("TotalTerms = %d, want %d (a lost write here means concurrent postings raced)", g.TotalTerms, wantTotalTerms)
	}

	results, err := e.Search(ctx, "shared", n+1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != n {
		t.Errorf("len(results) = %d, want %d distinct documents", len(results), n)
	}
}

func TestIndexBatchAlreadyIndexedFailsTheGroup(t *testing.T) {
	e, ctx := newTestEngine(t)
	if err := e.IndexDocument(ctx, "dup", "hello world"); err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}
	err := e.IndexBatch(ctx, map[string]string{"dup": "a different body"})
	if !errors.Is(err, ErrAlreadyIndexed) {
		t.Errorf("error = %v, want ErrAlreadyIndexed", err)
	}
}

func TestSearchWithCallbackEarlyStop(t *testing.T) {
	e, ctx := newTestEngine(t)
	indexCorpus(t, e, ctx)

	var seen []string
	err := e.SearchWithCallback(ctx, "world", func(callerKey string, score float64) bool {
		seen = append(seen, callerKey)
		return true
	})
	if err != nil {
		t.Fatalf("SearchWithCallback: %v", err)
	}
	if len(seen) != 1 {
		t.Errorf("seen = %v, want exactly one result before stopping", seen)
	}
}
