// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command okapi-tui is an interactive search REPL: type a query, see
// ranked results update live, open a config with --config the same way
// the okapi CLI does.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okapisearch/okapi"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default: in-memory store)")
	flag.Parse()

	ctx := context.Background()
	cfg := okapi.DefaultConfig()
	if *configPath != "" {
		loaded, err := okapi.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	engine, err := okapi.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer engine.Close(ctx)

	p := tea.NewProgram(newModel(ctx, engine), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
