// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package database

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roster-watch/internal/roster"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleResult() *roster.ParseResult {
	prov := roster.Provenance{
		SourceDate:  "2025-09-16",
		Page:        4,
		SourceURL:   "https://clerk.house.gov/committee_info/scsoal.pdf",
		ContentHash: "abc123",
	}
	assignmentProv := prov
	assignmentProv.RawLine = "3. Pete Sessions, TX 3. Brad Sherman, CA"

	return &roster.ParseResult{
		Committees: []roster.Committee{
			{CommitteeKey: "financial-services", DisplayName: "FINANCIAL SERVICES", Chamber: roster.Chamber, Type: roster.TypeStanding, Ratio: "26-22", Provenance: prov},
		},
		Subcommittees: []roster.Subcommittee{
			{SubcommitteeKey: "financial-services::capital-markets", CommitteeKey: "financial-services", CommitteeName: "FINANCIAL SERVICES", DisplayName: "CAPITAL MARKETS", Provenance: prov},
		},
		Members: []roster.Member{
			{MemberKey: "pete-sessions-tx", DisplayName: "Pete Sessions", State: "TX", Provenance: prov},
		},
		Assignments: []roster.Assignment{
			{
				AssignmentKey:    "pete-sessions-tx::financial-services::2025-09-16",
				MemberKey:        "pete-sessions-tx",
				CommitteeKey:     "financial-services",
				CommitteeOnlyKey: "financial-services",
				Role:             roster.RoleMember,
				Group:            roster.GroupMajority,
				Position:         3,
				Provenance:       assignmentProv,
			},
			{
				AssignmentKey:   "pete-sessions-tx::financial-services::capital-markets::2025-09-16",
				MemberKey:       "pete-sessions-tx",
				CommitteeKey:    "financial-services",
				SubcommitteeKey: "financial-services::capital-markets",
				Role:            roster.RoleMember,
				Group:           roster.GroupMajority,
				Provenance:      assignmentProv,
			},
		},
		Status: roster.StatusSuccess,
	}
}

func TestRosterStore_SaveResultIdempotent(t *testing.T) {
	db := openTestDB(t)
	store, err := NewRosterStore(db)
	if err != nil {
		t.Fatalf("NewRosterStore failed: %v", err)
	}

	result := sampleResult()
	if err := store.SaveResult(result); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	// Saving the same result again must converge, not duplicate.
	if err := store.SaveResult(result); err != nil {
		t.Fatalf("Second SaveResult failed: %v", err)
	}

	committees, subcommittees, members, assignments, err := store.Counts()
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if committees != 1 || subcommittees != 1 || members != 1 || assignments != 2 {
		t.Errorf("Counts = %d/%d/%d/%d, expected 1/1/1/2", committees, subcommittees, members, assignments)
	}
}

func TestRosterStore_AssignmentsByMember(t *testing.T) {
	db := openTestDB(t)
	store, err := NewRosterStore(db)
	if err != nil {
		t.Fatalf("NewRosterStore failed: %v", err)
	}
	if err := store.SaveResult(sampleResult()); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	assignments, err := store.AssignmentsByMember("pete-sessions-tx")
	if err != nil {
		t.Fatalf("AssignmentsByMember failed: %v", err)
	}
	if len(assignments) != 2 {
		t.Fatalf("Expected 2 assignments, got %d", len(assignments))
	}
	for _, a := range assignments {
		if a.RawLine == "" {
			t.Errorf("Assignment %s lost its raw line in storage", a.AssignmentKey)
		}
	}
}

func TestRosterStore_AssignmentsUnderCommittee(t *testing.T) {
	db := openTestDB(t)
	store, err := NewRosterStore(db)
	if err != nil {
		t.Fatalf("NewRosterStore failed: %v", err)
	}
	if err := store.SaveResult(sampleResult()); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	// The committee-level query must also surface subcommittee assignments.
	assignments, err := store.AssignmentsUnderCommittee("financial-services", "2025-09-16")
	if err != nil {
		t.Fatalf("AssignmentsUnderCommittee failed: %v", err)
	}
	if len(assignments) != 2 {
		t.Errorf("Expected 2 assignments under the committee, got %d", len(assignments))
	}
}

func TestDocumentLog_ChangeDetection(t *testing.T) {
	db := openTestDB(t)
	log, err := NewDocumentLog(db)
	if err != nil {
		t.Fatalf("NewDocumentLog failed: %v", err)
	}

	url := "https://clerk.house.gov/committee_info/scsoal.pdf"

	hash, date, err := log.LastSeen(url)
	if err != nil {
		t.Fatalf("LastSeen failed: %v", err)
	}
	if hash != "" || date != "" {
		t.Errorf("Expected empty hash/date for unseen URL, got %q/%q", hash, date)
	}

	if err := log.RecordDocument(url, "abc123", "2025-09-16"); err != nil {
		t.Fatalf("RecordDocument failed: %v", err)
	}

	hash, date, err = log.LastSeen(url)
	if err != nil {
		t.Fatalf("LastSeen failed: %v", err)
	}
	if hash != "abc123" || date != "2025-09-16" {
		t.Errorf("LastSeen = %q/%q, expected abc123/2025-09-16", hash, date)
	}

	// A newer edition overwrites the previous sighting.
	if err := log.RecordDocument(url, "def456", "2025-09-23"); err != nil {
		t.Fatalf("RecordDocument failed: %v", err)
	}
	hash, date, _ = log.LastSeen(url)
	if hash != "def456" || date != "2025-09-23" {
		t.Errorf("LastSeen after update = %q/%q, expected def456/2025-09-23", hash, date)
	}
}

func TestDocumentLog_RunHistory(t *testing.T) {
	db := openTestDB(t)
	log, err := NewDocumentLog(db)
	if err != nil {
		t.Fatalf("NewDocumentLog failed: %v", err)
	}

	if err := log.LogRun("run-1", "u", "2025-09-16", "Success", "10 committees"); err != nil {
		t.Fatalf("LogRun failed: %v", err)
	}
	if err := log.LogRun("run-2", "u", "2025-09-23", "Degraded", "only 5 committees"); err != nil {
		t.Fatalf("LogRun failed: %v", err)
	}

	runs, err := log.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-2" {
		t.Errorf("Expected newest run first, got %s", runs[0].RunID)
	}
}
