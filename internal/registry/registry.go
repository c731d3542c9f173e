// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package registry maintains the global record and the caller-key to
// doc-id mapping: allocation with free-list reuse, the global counters
// scoring depends on, and clearing the whole index.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/okapisearch/okapi/internal/codec"
	"github.com/okapisearch/okapi/internal/store"
)

// ErrAlreadyIndexed is returned by Allocate when callerKey already maps
// to a doc id.
var ErrAlreadyIndexed = errors.New("registry: caller key already indexed")

// ErrEmptyIndex is returned by Globals when the global record has never
// been written.
var ErrEmptyIndex = errors.New("registry: index is empty")

// Registry wraps a Store with the allocation and bookkeeping operations
// described in the data model's global record and reverse-lookup key
// families. It holds no state of its own beyond the store handle.
type Registry struct {
	s store.Store
}

// New wraps s. s must already be open.
func New(s store.Store) *Registry {
	return &Registry{s: s}
}

// Globals reads the global record, failing with ErrEmptyIndex if no
// document has ever been indexed.
func (r *Registry) Globals(ctx context.Context) (codec.Global, error) {
	value, found, err := r.s.Get(ctx, codec.GlobalKey)
	if err != nil {
		return codec.Global{}, fmt.Errorf("registry: read global record: %w", err)
	}
	if !found {
		return codec.Global{}, ErrEmptyIndex
	}
	g, err := codec.DecodeGlobal(value)
	if err != nil {
		return codec.Global{}, fmt.Errorf("registry: decode global record: %w", err)
	}
	return g, nil
}

// Allocate assigns a fresh doc id to callerKey and records docSize
// against the global term count, reusing the head of the free list when
// one is present. It fails with ErrAlreadyIndexed without writing
// anything if callerKey is already mapped to a doc id.
func (r *Registry) Allocate(ctx context.Context, callerKey string, docSize int) (int, error) {
	revKey := codec.ReverseLookupKey(callerKey)
	if _, found, err := r.s.Get(ctx, revKey); err != nil {
		return 0, fmt.Errorf("registry: check existing caller key: %w", err)
	} else if found {
		return 0, ErrAlreadyIndexed
	}

	g, err := r.readGlobalOrZero(ctx)
	if err != nil {
		return 0, err
	}

	var docID int
	var next codec.Global
	if g.FreeHead == "" {
		docID = g.DocCount + 1
		next = codec.Global{
			DocCount:   docID,
			TotalTerms: g.TotalTerms + docSize,
			FreeHead:   "",
		}
	} else {
		headID, err := parseFreeHead(g.FreeHead)
		if err != nil {
			return 0, fmt.Errorf("registry: %w", err)
		}
		nextFree, err := r.followFreeListPointer(ctx, headID)
		if err != nil {
			return 0, err
		}
		docID = headID
		next = codec.Global{
			DocCount:   g.DocCount,
			TotalTerms: g.TotalTerms + docSize,
			FreeHead:   nextFree,
		}
	}

	if err := r.s.Put(ctx, codec.GlobalKey, codec.EncodeGlobal(next)); err != nil {
		return 0, fmt.Errorf("registry: write global record: %w", err)
	}
	if err := r.s.Put(ctx, revKey, fmt.Sprintf("%d", docID)); err != nil {
		return 0, fmt.Errorf("registry: write reverse lookup: %w", err)
	}
	return docID, nil
}

// Clear empties the entire underlying store. The next allocation starts
// from id 1.
func (r *Registry) Clear(ctx context.Context) error {
	if err := r.s.Clear(ctx); err != nil {
		return fmt.Errorf("registry: clear: %w", err)
	}
	return nil
}

// readGlobalOrZero reads the global record, treating an absent record
// as the zero value ("0,0,") per the allocator's documented init
// behavior, rather than failing with ErrEmptyIndex the way Globals does.
func (r *Registry) readGlobalOrZero(ctx context.Context) (codec.Global, error) {
	value, found, err := r.s.Get(ctx, codec.GlobalKey)
	if err != nil {
		return codec.Global{}, fmt.Errorf("registry: read global record: %w", err)
	}
	if !found {
		return codec.Global{}, nil
	}
	g, err := codec.DecodeGlobal(value)
	if err != nil {
		return codec.Global{}, fmt.Errorf("registry: decode global record: %w", err)
	}
	return g, nil
}

// followFreeListPointer reads the per-document record at the free
// list's head id and returns its encoded "next" pointer: per §9, a
// dormant free-list slot carries the former head as its sole content.
// Any other shape at that key is Corruption, per the open question on
// follow-on format.
func (r *Registry) followFreeListPointer(ctx context.Context, headID int) (string, error) {
	key := codec.DocumentKey(headID)
	value, found, err := r.s.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("registry: read free-list slot %d: %w", headID, err)
	}
	if !found {
		return "", &codec.CorruptionError{Key: key, Reason: "free-list head has no per-document record"}
	}
	for _, c := range value {
		if c < '0' || c > '9' {
			return "", &codec.CorruptionError{Key: key, Reason: fmt.Sprintf("free-list slot holds %q, not a doc id", value)}
		}
	}
	return value, nil
}

func parseFreeHead(s string) (int, error) {
	var id int
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil {
		return 0, &codec.CorruptionError{Key: codec.GlobalKey, Reason: fmt.Sprintf("bad freeHead %q: %v", s, err)}
	}
	return id, nil
}
