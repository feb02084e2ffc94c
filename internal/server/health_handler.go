// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
)

func encodeJSON(w io.Writer, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// HandleHealth handles GET /api/health requests
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	committees, subcommittees, members, assignments, err := s.Store.Counts()
	if err != nil {
		log.Printf("Health check failed to read counts: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to read counts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "up",
		"version": "1.0",
		"counts": map[string]int{
			"committees":    committees,
			"subcommittees": subcommittees,
			"members":       members,
			"assignments":   assignments,
		},
	})
}
