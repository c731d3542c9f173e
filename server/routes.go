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
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RegisterRoutes registers all /v1/* endpoints on rg.
//
// Endpoints:
//
//	POST /v1/index - Index one document
//	GET  /v1/search - Search, returning ranked results as JSON
//	GET  /v1/ws/search - Search over a websocket, streaming one ranked
//	                     result per frame
//
// limiter, if non-nil, is applied to the search endpoints only; the
// index endpoint is not rate limited.
func RegisterRoutes(rg *gin.RouterGroup, h *handlers, limiter *rate.Limiter) {
	rg.POST("/index", h.handleIndex)

	search := rg.Group("/search", rateLimitMiddleware(limiter))
	search.GET("", h.handleSearch)

	ws := rg.Group("/ws", rateLimitMiddleware(limiter))
	ws.GET("/search", h.handleSearchStream)
}
