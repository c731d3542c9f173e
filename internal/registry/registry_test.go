// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package registry

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/okapisearch/okapi/internal/codec"
	"github.com/okapisearch/okapi/internal/store"
)

func newTestRegistry(t *testing.T) (*Registry, context.Context) {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemoryStore()
	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	return New(s), ctx
}

func TestGlobalsEmptyIndex(t *testing.T) {
	r, ctx := newTestRegistry(t)
	if _, err := r.Globals(ctx); !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("Globals() error = %v, want ErrEmptyIndex", err)
	}
}

func TestAllocateFirstDocument(t *testing.T) {
	r, ctx := newTestRegistry(t)
	id, err := r.Allocate(ctx, "doc-1", 5)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if id != 1 {
		t.Errorf("first allocated id = %d, want 1", id)
	}
	g, err := r.Globals(ctx)
	if err != nil {
		t.Fatalf("Globals: %v", err)
	}
	want := codec.Global{DocCount: 1, TotalTerms: 5, FreeHead: ""}
	if g != want {
		t.Errorf("Globals = %+v, want %+v", g, want)
	}
}

func TestAllocateMonotonic(t *testing.T) {
	r, ctx := newTestRegistry(t)
	id1, _ := r.Allocate(ctx, "doc-1", 3)
	id2, _ := r.Allocate(ctx, "doc-2", 4)
	id3, _ := r.Allocate(ctx, "doc-3", 2)
	if id1 != 1 || id2 != 2 || id3 != 3 {
		t.Errorf("ids = %d, %d, %d; want 1, 2, 3", id1, id2, id3)
	}
	g, err := r.Globals(ctx)
	if err != nil {
		t.Fatalf("Globals: %v", err)
	}
	if g.DocCount != 3 || g.TotalTerms != 9 {
		t.Errorf("Globals = %+v, want DocCount=3 TotalTerms=9", g)
	}
}

func TestAllocateAlreadyIndexed(t *testing.T) {
	r, ctx := newTestRegistry(t)
	if _, err := r.Allocate(ctx, "doc-1", 3); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if _, err := r.Allocate(ctx, "doc-1", 99); !errors.Is(err, ErrAlreadyIndexed) {
		t.Errorf("second Allocate error = %v, want ErrAlreadyIndexed", err)
	}
	g, err := r.Globals(ctx)
	if err != nil {
		t.Fatalf("Globals: %v", err)
	}
	if g.TotalTerms != 3 {
		t.Errorf("rejected allocation must not change globals: TotalTerms = %d, want 3", g.TotalTerms)
	}
}

func TestAllocateZeroDocSizeStillAllocates(t *testing.T) {
	r, ctx := newTestRegistry(t)
	id, err := r.Allocate(ctx, "all-stopwords", 0)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if id != 1 {
		t.Errorf("id = %d, want 1", id)
	}
	g, err := r.Globals(ctx)
	if err != nil {
		t.Fatalf("Globals: %v", err)
	}
	if g.DocCount != 1 || g.TotalTerms != 0 {
		t.Errorf("Globals = %+v, want DocCount=1 TotalTerms=0", g)
	}
}

func TestClearResetsAllocation(t *testing.T) {
	r, ctx := newTestRegistry(t)
	r.Allocate(ctx, "doc-1", 5)
	r.Allocate(ctx, "doc-2", 5)

	if err := r.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := r.Globals(ctx); !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("Globals after Clear error = %v, want ErrEmptyIndex", err)
	}

	id, err := r.Allocate(ctx, "doc-1", 3)
	if err != nil {
		t.Fatalf("Allocate after Clear: %v", err)
	}
	if id != 1 {
		t.Errorf("first id after Clear = %d, want 1", id)
	}
}

func TestAllocateReusesFreeListHead(t *testing.T) {
	r, ctx := newTestRegistry(t)
	id1, _ := r.Allocate(ctx, "doc-1", 3)
	id2, _ := r.Allocate(ctx, "doc-2", 4)

	// Simulate the dormant free-list machinery (§9): manually push id1
	// onto the free list the way a future deletion operation would,
	// since no public operation does this yet.
	g, err := r.Globals(ctx)
	if err != nil {
		t.Fatalf("Globals: %v", err)
	}
	// Write the dormant slot content directly via the registry's store
	// by re-deriving it: the per-document record at id1's key becomes
	// just the former free head ("", since the list was empty).
	pushFreeListHead(t, r, id1, "")
	g2 := codec.Global{DocCount: g.DocCount, TotalTerms: g.TotalTerms, FreeHead: strconv.Itoa(id1)}
	writeGlobal(t, r, g2)

	id3, err := r.Allocate(ctx, "doc-3", 2)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if id3 != id1 {
		t.Errorf("Allocate after free-list push = %d, want reused id %d", id3, id1)
	}
	if id2 == id3 {
		t.Errorf("reused id must not collide with a live id")
	}
}

// pushFreeListHead writes the dormant per-document slot content for
// docID directly through the registry's store, bypassing any public
// indexing API (there is none for deletion yet).
func pushFreeListHead(t *testing.T, r *Registry, docID int, next string) {
	t.Helper()
	if err := r.s.Put(context.Background(), codec.DocumentKey(docID), next); err != nil {
		t.Fatalf("pushFreeListHead: %v", err)
	}
}

func writeGlobal(t *testing.T, r *Registry, g codec.Global) {
	t.Helper()
	if err := r.s.Put(context.Background(), codec.GlobalKey, codec.EncodeGlobal(g)); err != nil {
		t.Fatalf("writeGlobal: %v", err)
	}
}

