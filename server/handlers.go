// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/okapisearch/okapi"
)

type handlers struct {
	engine *okapi.Engine
}

// ErrorResponse is the JSON body returned for any non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// IndexRequest is the POST /v1/index request body.
type IndexRequest struct {
	CallerKey string `json:"caller_key" binding:"required"`
	Text      string `json:"text" binding:"required"`
}

// IndexResponse is the POST /v1/index response body.
type IndexResponse struct {
	CallerKey string `json:"caller_key"`
}

// handleIndex handles POST /v1/index.
//
// Response:
//
//	201 Created: IndexResponse
//	400 Bad Request: malformed body
//	409 Conflict: caller_key already indexed
func (h *handlers) handleIndex(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "handleIndex")

	var req IndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "BAD_REQUEST"})
		return
	}

	if err := h.engine.IndexDocument(c.Request.Context(), req.CallerKey, req.Text); err != nil {
		if errors.Is(err, okapi.ErrAlreadyIndexed) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "ALREADY_INDEXED"})
			return
		}
		logger.Error("index failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "INTERNAL"})
		return
	}

	c.JSON(http.StatusCreated, IndexResponse{CallerKey: req.CallerKey})
}

// SearchHit is one ranked result in a SearchResponse.
type SearchHit struct {
	CallerKey string  `json:"caller_key"`
	Score     float64 `json:"score"`
}

// SearchResponse is the GET /v1/search response body.
type SearchResponse struct {
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
}

// handleSearch handles GET /v1/search?q=...&limit=....
//
// Response:
//
//	200 OK: SearchResponse (Results may be empty)
//	400 Bad Request: missing q
//	404 Not Found: index is empty
func (h *handlers) handleSearch(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "handleSearch")

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "q parameter is required", Code: "MISSING_PARAMETER"})
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	results, err := h.engine.Search(c.Request.Context(), query, limit)
	if err != nil {
		if errors.Is(err, okapi.ErrEmptyIndex) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "EMPTY_INDEX"})
			return
		}
		logger.Error("search failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "INTERNAL"})
		return
	}

	hits := make([]SearchHit, len(results))
	for i, r := range results {
		hits[i] = SearchHit{CallerKey: r.CallerKey, Score: r.Score}
	}
	c.JSON(http.StatusOK, SearchResponse{Query: query, Results: hits})
}
