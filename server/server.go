// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package server exposes an Engine over HTTP: a gin router with
// indexing, search, and streaming-search endpoints, health and metrics
// endpoints, and request-id/rate-limit middleware.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/okapisearch/okapi"
)

// Server wraps an *okapi.Engine with the HTTP surface described by the
// package doc.
type Server struct {
	engine *okapi.Engine
	router *gin.Engine
}

// Config controls the HTTP server's own behavior, separate from the
// engine's Config.
type Config struct {
	// ServiceName is the name reported to the OTel middleware's spans.
	ServiceName string
	// QueryRateLimit caps sustained queries per second per process; 0
	// disables rate limiting.
	QueryRateLimit rate.Limit
	// QueryRateBurst is the token bucket burst size; ignored when
	// QueryRateLimit is 0.
	QueryRateBurst int
	// Debug turns on gin's request logger.
	Debug bool
}

// DefaultConfig returns a Config with a generous but non-zero query rate
// limit, suitable for a single-tenant deployment.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "okapi",
		QueryRateLimit: 50,
		QueryRateBurst: 100,
	}
}

// New builds a Server around engine.
func New(engine *okapi.Engine, cfg Config) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(RequestIDMiddleware())
	if cfg.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{engine: engine, router: router}
	h := &handlers{engine: engine}

	router.GET("/healthz", h.handleHealthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	var limiter *rate.Limiter
	if cfg.QueryRateLimit > 0 {
		limiter = rate.NewLimiter(cfg.QueryRateLimit, cfg.QueryRateBurst)
	}
	RegisterRoutes(v1, h, limiter)

	return s
}

// Handler returns the underlying http.Handler, for use with http.Server
// or httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// handleHealthz reports liveness. It never touches the engine, so it
// stays fast and dependency-free even if the store is under load.
func (h *handlers) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}
