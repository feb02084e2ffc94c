// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"log"
	"net/http"

	"github.com/roster-watch/internal/roster"
)

// HandleCommittees handles GET /api/committees requests.
func (s *Server) HandleCommittees(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	committees, err := s.Store.Committees()
	if err != nil {
		log.Printf("Failed to read committees: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to read committees")
		return
	}
	if committees == nil {
		committees = []roster.Committee{}
	}

	writeJSON(w, http.StatusOK, committees)
}

// HandleAssignments handles GET /api/assignments requests. Query by
// member key, or by committee key plus source date.
func (s *Server) HandleAssignments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	memberKey := q.Get("member")
	committeeKey := q.Get("committee")

	var assignments []roster.Assignment
	var err error
	switch {
	case memberKey != "":
		assignments, err = s.Store.AssignmentsByMember(memberKey)
	case committeeKey != "":
		sourceDate := q.Get("source_date")
		if sourceDate == "" {
			writeError(w, http.StatusBadRequest, "source_date is required with committee")
			return
		}
		assignments, err = s.Store.AssignmentsUnderCommittee(committeeKey, sourceDate)
	default:
		writeError(w, http.StatusBadRequest, "member or committee query parameter is required")
		return
	}

	if err != nil {
		log.Printf("Failed to read assignments: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to read assignments")
		return
	}
	if assignments == nil {
		assignments = []roster.Assignment{}
	}

	writeJSON(w, http.StatusOK, assignments)
}
