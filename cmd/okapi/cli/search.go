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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okapisearch/okapi"
)

func newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query terms...>",
		Short: "Search the index and print ranked results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results")
	return cmd
}

func runSearch(cmd *cobra.Command, query string, limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	engine, err := okapi.Open(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("open engine: %w", err)
	}
	defer engine.Close(cmd.Context())

	results, err := engine.Search(cmd.Context(), query, limit)
	if err != nil {
		if errors.Is(err, okapi.ErrEmptyIndex) {
			fmt.Println(render(dimStyle, "index is empty"))
			return nil
		}
		return fmt.Errorf("search %q: %w", query, err)
	}

	if len(results) == 0 {
		fmt.Println(render(dimStyle, "no results"))
		return nil
	}

	fmt.Println(render(titleStyle, fmt.Sprintf("%q (%d results)", query, len(results))))
	for i, r := range results {
		fmt.Printf("  %2d. %-30s %s\n", i+1, r.CallerKey, render(scoreStyle, fmt.Sprintf("%.4f", r.Score)))
	}
	return nil
}
