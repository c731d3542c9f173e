// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cli wires the okapi command-line interface: serve, index,
// watch, search, and backup subcommands sharing a single --config flag.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/okapisearch/okapi"
)

var configPath string

// Execute builds and runs the root okapi command.
func Execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:   "okapi",
		Short: "A persistent BM25 free-text search engine",
		Long: `okapi indexes free-text documents under a caller-supplied key and
ranks search queries against them using Okapi BM25.

  okapi serve   Start the HTTP API
  okapi index   Index one document from the command line
  okapi watch   Index every file in a directory, then keep indexing new ones
  okapi search  Run a query and print ranked results
  okapi backup  Stream a cold snapshot to Google Cloud Storage`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (default: in-memory store)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newIndexCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newBackupCmd())

	return root.ExecuteContext(ctx)
}

// loadConfig reads --config when set, falling back to okapi.DefaultConfig
// (in-memory store) for quick, throwaway CLI use.
func loadConfig() (okapi.Config, error) {
	if configPath == "" {
		return okapi.DefaultConfig(), nil
	}
	return okapi.LoadConfig(configPath)
}
