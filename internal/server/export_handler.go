// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/roster-watch/internal/export"
)

// HandleExport handles GET /api/export requests: the stored roster as an
// Excel workbook.
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snapshot, err := s.Store.Snapshot()
	if err != nil {
		log.Printf("Export failed to load snapshot: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load roster")
		return
	}
	if len(snapshot.Committees) == 0 {
		writeError(w, http.StatusNotFound, "no roster stored yet")
		return
	}

	dir, err := os.MkdirTemp("", "roster-export")
	if err != nil {
		log.Printf("Export failed to create temp dir: %v", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "roster.xlsx")
	if err := export.WriteWorkbook(path, snapshot); err != nil {
		log.Printf("Export failed to write workbook: %v", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="roster.xlsx"`)
	http.ServeFile(w, r, path)
}
