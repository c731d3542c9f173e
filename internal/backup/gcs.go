// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package backup streams a cold snapshot of the engine's BadgerDB store
// to a Google Cloud Storage object. It is deliberately offline: callers
// are expected to quiesce writes (or accept a point-in-time-ish view,
// per BadgerDB's own Backup semantics) before invoking it.
package backup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"cloud.google.com/go/storage"
)

// BadgerBackup is the subset of *store.BadgerStore this package needs.
// Defined locally rather than importing internal/store, so a test double
// can stand in for it without a real DB.
type BadgerBackup interface {
	// Backup writes a full BadgerDB snapshot to w, returning the version
	// the snapshot was taken at.
	Backup(w io.Writer, since uint64) (uint64, error)
}

// GCSTarget names the bucket and object prefix a snapshot is written
// under. Object names are suffixed with a RFC3339 timestamp (second
// resolution) so backups taken in different seconds never collide.
type GCSTarget struct {
	Bucket string
	Prefix string
}

// objectName returns Prefix/okapi-snapshot-<RFC3339>.badger for at.
func (t GCSTarget) objectName(at time.Time) string {
	return fmt.Sprintf("%s/okapi-snapshot-%s.badger", t.Prefix, at.UTC().Format(time.RFC3339))
}

// Upload streams a full Backup of db to the GCS object named by target,
// stamped with at. It returns the object name written and
// the BadgerDB version the snapshot represents.
func Upload(ctx context.Context, client *storage.Client, target GCSTarget, db BadgerBackup, at time.Time) (string, uint64, error) {
	objectName := target.objectName(at)
	w := client.Bucket(target.Bucket).Object(objectName).NewWriter(ctx)

	version, err := db.Backup(w, 0)
	if err != nil {
		_ = w.Close()
		return "", 0, fmt.Errorf("backup: stream snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", 0, fmt.Errorf("backup: finalize upload to gs://%s/%s: %w", target.Bucket, objectName, err)
	}

	slog.Info("okapi snapshot uploaded",
		slog.String("bucket", target.Bucket),
		slog.String("object", objectName),
		slog.Uint64("version", version),
	)
	return objectName, version, nil
}
