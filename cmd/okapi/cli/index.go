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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okapisearch/okapi"
)

func newIndexCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "index <caller-key>",
		Short: "Index one document, read from a file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, args[0], filePath)
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "path to the document text (default: read stdin)")
	return cmd
}

func runIndex(cmd *cobra.Command, callerKey, filePath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	engine, err := okapi.Open(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("open engine: %w", err)
	}
	defer engine.Close(cmd.Context())

	var r io.Reader = os.Stdin
	if filePath != "" {
		f, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("open %s: %w", filePath, err)
		}
		defer f.Close()
		r = f
	}

	text, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read document text: %w", err)
	}

	if err := engine.IndexDocument(cmd.Context(), callerKey, string(text)); err != nil {
		if errors.Is(err, okapi.ErrAlreadyIndexed) {
			fmt.Println(render(errorStyle, fmt.Sprintf("%s is already indexed", callerKey)))
			return err
		}
		return fmt.Errorf("index %s: %w", callerKey, err)
	}

	fmt.Println(render(successStyle, fmt.Sprintf("indexed %s (%d bytes)", callerKey, len(text))))
	return nil
}
