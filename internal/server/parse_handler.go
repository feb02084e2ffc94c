// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/roster-watch/internal/jobs"
)

// HandleParse handles POST /api/parse requests. Enqueues a parse of the
// configured roster URL, or of the URL in the request body. Force skips
// change detection.
func (s *Server) HandleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.Queue == nil {
		writeError(w, http.StatusServiceUnavailable, "job queue not available")
		return
	}

	payload := jobs.ParseRosterPayload{URL: s.RosterURL}
	if r.Body != nil {
		var req struct {
			URL   string `json:"url"`
			Force bool   `json:"force"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			if req.URL != "" {
				payload.URL = req.URL
			}
			payload.Force = req.Force
		}
	}

	if payload.URL == "" {
		writeError(w, http.StatusBadRequest, "no roster url configured or provided")
		return
	}

	if err := jobs.Enqueue(r.Context(), s.Queue, payload); err != nil {
		log.Printf("Failed to enqueue parse job: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to enqueue job")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "queued",
		"url":    payload.URL,
	})
}
