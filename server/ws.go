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
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// writeWait bounds how long a single frame write may block.
const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The search stream is same-origin by default; deployments behind a
	// different origin must front this with their own CheckOrigin policy
	// at the reverse proxy.
}

// wsQueryMessage is the single inbound message shape: one query per
// connection, answered with a stream of wsHitMessage frames.
type wsQueryMessage struct {
	Query string `json:"query"`
}

type wsHitMessage struct {
	CallerKey string  `json:"caller_key"`
	Score     float64 `json:"score"`
}

type wsDoneMessage struct {
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

// handleSearchStream handles GET /v1/ws/search: upgrades to a
// websocket, reads one query message, and streams ranked results
// directly from SearchWithCallback's visitor, one frame per result in
// ranked order, rather than buffering the full result slice first.
func (h *handlers) handleSearchStream(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "handleSearchStream")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	var msg wsQueryMessage
	if err := conn.ReadJSON(&msg); err != nil {
		h.writeWSDone(conn, err)
		return
	}

	err = h.engine.SearchWithCallback(c.Request.Context(), msg.Query, func(callerKey string, score float64) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if werr := conn.WriteJSON(wsHitMessage{CallerKey: callerKey, Score: score}); werr != nil {
			logger.Warn("websocket write failed", slog.String("error", werr.Error()))
			return true
		}
		return false
	})
	h.writeWSDone(conn, err)
}

func (h *handlers) writeWSDone(conn *websocket.Conn, err error) {
	done := wsDoneMessage{Done: true}
	if err != nil {
		done.Error = err.Error()
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteJSON(done)
}
