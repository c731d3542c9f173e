// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cli

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/spf13/cobra"

	"github.com/okapisearch/okapi"
	"github.com/okapisearch/okapi/internal/backup"
	"github.com/okapisearch/okapi/internal/store"
)

func newBackupCmd() *cobra.Command {
	var bucket, prefix string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Stream a cold snapshot of a badger-backed index to Google Cloud Storage",
		Long: `backup opens the index named by --config and
streams a full BadgerDB snapshot to gs://<bucket>/<prefix>/okapi-snapshot-<timestamp>.badger.

It only works against a badger-backed index (store.kind: badger); an
in-memory index has nothing durable to snapshot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(cmd.Context(), bucket, prefix)
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "GCS bucket to upload the snapshot to (required)")
	cmd.Flags().StringVar(&prefix, "prefix", "okapi-backups", "object name prefix within the bucket")
	cmd.MarkFlagRequired("bucket")
	return cmd
}

func runBackup(ctx context.Context, bucket, prefix string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Store.Kind != okapi.StoreKindBadger {
		return fmt.Errorf("backup requires a badger-backed index (set store.kind: badger in --config), got %q", cfg.Store.Kind)
	}

	badgerStore := store.NewBadgerStore(cfg.Store.Path, nil)
	if err := badgerStore.Open(ctx); err != nil {
		return fmt.Errorf("open badger store at %s: %w", cfg.Store.Path, err)
	}
	defer badgerStore.Close(ctx)

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create GCS client: %w", err)
	}
	defer client.Close()

	target := backup.GCSTarget{Bucket: bucket, Prefix: prefix}
	object, version, err := backup.Upload(ctx, client, target, badgerStore.DB(), time.Now())
	if err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}

	fmt.Println(render(successStyle, fmt.Sprintf("uploaded gs://%s/%s (badger version %d)", bucket, object, version)))
	return nil
}
