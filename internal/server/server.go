// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package server exposes the HTTP API: health, run history, stored roster
// data, manual parse triggers, spreadsheet export, and the WebSocket
// notification endpoint.
package server

import (
	"net/http"

	"github.com/roster-watch/internal/database"
	"github.com/roster-watch/internal/notify"
	"github.com/roster-watch/internal/queue"
)

// Server holds the dependencies the handlers need.
type Server struct {
	Store     *database.RosterStore
	Log       *database.DocumentLog
	Hub       *notify.Hub
	Queue     queue.Queue
	RosterURL string
}

// Routes builds the HTTP mux.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.HandleHealth)
	mux.HandleFunc("/api/runs", s.HandleRuns)
	mux.HandleFunc("/api/parse", s.HandleParse)
	mux.HandleFunc("/api/committees", s.HandleCommittees)
	mux.HandleFunc("/api/assignments", s.HandleAssignments)
	mux.HandleFunc("/api/export", s.HandleExport)
	if s.Hub != nil {
		mux.HandleFunc("/ws", s.Hub.HandleWebSocket)
	}

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encodeJSON(w, v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
