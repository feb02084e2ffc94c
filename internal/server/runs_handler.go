// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"log"
	"net/http"
	"strconv"

	"github.com/roster-watch/internal/database"
)

// HandleRuns handles GET /api/runs requests, newest run first.
func (s *Server) HandleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := s.Log.RecentRuns(limit)
	if err != nil {
		log.Printf("Failed to read run history: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to read run history")
		return
	}
	if runs == nil {
		runs = []database.RunEvent{}
	}

	writeJSON(w, http.StatusOK, runs)
}
