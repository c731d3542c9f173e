// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerStore is the default persistent Store, backed by an embedded
// BadgerDB instance. Every Get/Put/Delete is its own single-key
// transaction; the core never asks for cross-key atomicity (§5), so
// there is no WithTxn exposed beyond that.
type BadgerStore struct {
	path   string
	logger *slog.Logger
	db     *badger.DB
}

// NewBadgerStore returns a store rooted at path. The database is not
// opened until Open is called.
func NewBadgerStore(path string, logger *slog.Logger) *BadgerStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &BadgerStore{path: path, logger: logger}
}

// Open acquires the BadgerDB file lock at path. Badger's own logger is
// silenced in favor of the store's slog.Logger.
func (b *BadgerStore) Open(ctx context.Context) error {
	opts := badger.DefaultOptions(b.path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("store: open badger at %q: %w", b.path, err)
	}
	b.db = db
	b.logger.Debug("badger store opened", slog.String("path", b.path))
	return nil
}

// Close releases the BadgerDB file lock. Safe to call even if Open
// failed or was never called.
func (b *BadgerStore) Close(ctx context.Context) error {
	if b.db == nil {
		return nil
	}
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("store: close badger: %w", err)
	}
	b.db = nil
	return nil
}

func (b *BadgerStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return "", false, fmt.Errorf("store: get %q: %w", key, err)
	}
	if value == nil {
		return "", false, nil
	}
	return string(value), true, nil
}

func (b *BadgerStore) Put(ctx context.Context, key, value string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("store: put %q: %w", key, err)
	}
	return nil
}

func (b *BadgerStore) Delete(ctx context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("store: delete %q: %w", key, err)
	}
	return nil
}

// Clear removes every key. BadgerDB has no native "truncate"; DropAll is
// the documented equivalent.
func (b *BadgerStore) Clear(ctx context.Context) error {
	if err := b.db.DropAll(); err != nil {
		return fmt.Errorf("store: clear: %w", err)
	}
	return nil
}

// DB exposes the underlying *badger.DB for components that need
// lower-level access, such as the cold-backup path which streams
// db.Backup directly.
func (b *BadgerStore) DB() *badger.DB {
	return b.db
}

var _ Store = (*BadgerStore)(nil)
