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
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/okapisearch/okapi"
	"github.com/okapisearch/okapi/server"
)

func newServeCmd() *cobra.Command {
	var port int
	var queryRPS float64
	var queryBurst int
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port, queryRPS, queryBurst, debug)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on")
	cmd.Flags().Float64Var(&queryRPS, "query-rps", 50, "sustained query rate limit per second (0 disables)")
	cmd.Flags().IntVar(&queryBurst, "query-burst", 100, "query rate limiter burst size")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable verbose request logging")
	return cmd
}

func runServe(ctx context.Context, port int, queryRPS float64, queryBurst int, debug bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	engine, err := okapi.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open engine: %w", err)
	}
	defer engine.Close(ctx)

	srvCfg := server.DefaultConfig()
	srvCfg.QueryRateLimit = rate.Limit(queryRPS)
	srvCfg.QueryRateBurst = queryBurst
	srvCfg.Debug = debug

	srv := server.New(engine, srvCfg)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // streaming search responses may run long
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Println(render(successStyle, fmt.Sprintf("okapi listening on :%d", port)))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
