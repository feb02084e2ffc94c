// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package database

import (
	"database/sql"
	"fmt"

	"github.com/roster-watch/internal/roster"
)

// RosterStore persists parse results to SQLite. All writes are idempotent
// upserts keyed by each entity's key field, so re-running a parse of the
// same document edition converges instead of duplicating.
type RosterStore struct {
	db *sql.DB
}

// NewRosterStore creates the store and its schema.
func NewRosterStore(db *sql.DB) (*RosterStore, error) {
	store := &RosterStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize roster schema: %w", err)
	}
	return store, nil
}

func (s *RosterStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS committees (
		committee_key TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		chamber TEXT NOT NULL,
		type TEXT NOT NULL,
		ratio TEXT,
		source_date TEXT NOT NULL,
		page INTEGER NOT NULL,
		source_url TEXT,
		content_hash TEXT
	);

	CREATE TABLE IF NOT EXISTS subcommittees (
		subcommittee_key TEXT PRIMARY KEY,
		committee_key TEXT NOT NULL,
		committee_name TEXT NOT NULL,
		display_name TEXT NOT NULL,
		notes TEXT,
		source_date TEXT NOT NULL,
		page INTEGER NOT NULL,
		source_url TEXT,
		content_hash TEXT
	);

	CREATE TABLE IF NOT EXISTS members (
		member_key TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		state TEXT,
		district TEXT,
		source_date TEXT NOT NULL,
		page INTEGER NOT NULL,
		source_url TEXT,
		content_hash TEXT
	);

	CREATE TABLE IF NOT EXISTS assignments (
		assignment_key TEXT PRIMARY KEY,
		member_key TEXT NOT NULL,
		committee_key TEXT NOT NULL,
		committee_only_key TEXT,
		subcommittee_key TEXT,
		role TEXT NOT NULL,
		grp TEXT NOT NULL,
		position INTEGER NOT NULL,
		source_date TEXT NOT NULL,
		page INTEGER NOT NULL,
		source_url TEXT,
		content_hash TEXT,
		raw_line TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_member ON assignments(member_key);
	CREATE INDEX IF NOT EXISTS idx_assignments_committee ON assignments(committee_key);
	CREATE INDEX IF NOT EXISTS idx_assignments_source_date ON assignments(source_date);
	CREATE INDEX IF NOT EXISTS idx_subcommittees_committee ON subcommittees(committee_key);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveResult upserts every entity of a parse result in one transaction.
func (s *RosterStore) SaveResult(result *roster.ParseResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range result.Committees {
		_, err := tx.Exec(
			`INSERT OR REPLACE INTO committees
			 (committee_key, display_name, chamber, type, ratio, source_date, page, source_url, content_hash)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.CommitteeKey, c.DisplayName, c.Chamber, c.Type, c.Ratio,
			c.SourceDate, c.Page, c.SourceURL, c.ContentHash,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert committee %s: %w", c.CommitteeKey, err)
		}
	}

	for _, sc := range result.Subcommittees {
		_, err := tx.Exec(
			`INSERT OR REPLACE INTO subcommittees
			 (subcommittee_key, committee_key, committee_name, display_name, notes, source_date, page, source_url, content_hash)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sc.SubcommitteeKey, sc.CommitteeKey, sc.CommitteeName, sc.DisplayName, sc.Notes,
			sc.SourceDate, sc.Page, sc.SourceURL, sc.ContentHash,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert subcommittee %s: %w", sc.SubcommitteeKey, err)
		}
	}

	for _, m := range result.Members {
		_, err := tx.Exec(
			`INSERT OR REPLACE INTO members
			 (member_key, display_name, state, district, source_date, page, source_url, content_hash)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.MemberKey, m.DisplayName, m.State, m.District,
			m.SourceDate, m.Page, m.SourceURL, m.ContentHash,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert member %s: %w", m.MemberKey, err)
		}
	}

	for _, a := range result.Assignments {
		_, err := tx.Exec(
			`INSERT OR REPLACE INTO assignments
			 (assignment_key, member_key, committee_key, committee_only_key, subcommittee_key,
			  role, grp, position, source_date, page, source_url, content_hash, raw_line)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.AssignmentKey, a.MemberKey, a.CommitteeKey, a.CommitteeOnlyKey, a.SubcommitteeKey,
			a.Role, a.Group, a.Position, a.SourceDate, a.Page, a.SourceURL, a.ContentHash, a.RawLine,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert assignment %s: %w", a.AssignmentKey, err)
		}
	}

	return tx.Commit()
}

// AssignmentsByMember returns all stored assignments for a member, newest
// edition first.
func (s *RosterStore) AssignmentsByMember(memberKey string) ([]roster.Assignment, error) {
	rows, err := s.db.Query(
		`SELECT assignment_key, member_key, committee_key, committee_only_key, subcommittee_key,
		        role, grp, position, source_date, page, source_url, content_hash, raw_line
		 FROM assignments WHERE member_key = ? ORDER BY source_date DESC, assignment_key`,
		memberKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

// AssignmentsUnderCommittee returns all activity under a top-level
// committee for one document edition, subcommittee assignments included.
func (s *RosterStore) AssignmentsUnderCommittee(committeeKey, sourceDate string) ([]roster.Assignment, error) {
	rows, err := s.db.Query(
		`SELECT assignment_key, member_key, committee_key, committee_only_key, subcommittee_key,
		        role, grp, position, source_date, page, source_url, content_hash, raw_line
		 FROM assignments WHERE committee_key = ? AND source_date = ? ORDER BY assignment_key`,
		committeeKey, sourceDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func scanAssignments(rows *sql.Rows) ([]roster.Assignment, error) {
	var assignments []roster.Assignment
	for rows.Next() {
		var a roster.Assignment
		if err := rows.Scan(
			&a.AssignmentKey, &a.MemberKey, &a.CommitteeKey, &a.CommitteeOnlyKey, &a.SubcommitteeKey,
			&a.Role, &a.Group, &a.Position, &a.SourceDate, &a.Page, &a.SourceURL, &a.ContentHash, &a.RawLine,
		); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// Committees returns all stored committees ordered by key.
func (s *RosterStore) Committees() ([]roster.Committee, error) {
	rows, err := s.db.Query(
		`SELECT committee_key, display_name, chamber, type, ratio, source_date, page, source_url, content_hash
		 FROM committees ORDER BY committee_key`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var committees []roster.Committee
	for rows.Next() {
		var c roster.Committee
		if err := rows.Scan(
			&c.CommitteeKey, &c.DisplayName, &c.Chamber, &c.Type, &c.Ratio,
			&c.SourceDate, &c.Page, &c.SourceURL, &c.ContentHash,
		); err != nil {
			return nil, err
		}
		committees = append(committees, c)
	}
	return committees, rows.Err()
}

// Subcommittees returns all stored subcommittees ordered by key.
func (s *RosterStore) Subcommittees() ([]roster.Subcommittee, error) {
	rows, err := s.db.Query(
		`SELECT subcommittee_key, committee_key, committee_name, display_name, notes, source_date, page, source_url, content_hash
		 FROM subcommittees ORDER BY subcommittee_key`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subcommittees []roster.Subcommittee
	for rows.Next() {
		var sc roster.Subcommittee
		if err := rows.Scan(
			&sc.SubcommitteeKey, &sc.CommitteeKey, &sc.CommitteeName, &sc.DisplayName, &sc.Notes,
			&sc.SourceDate, &sc.Page, &sc.SourceURL, &sc.ContentHash,
		); err != nil {
			return nil, err
		}
		subcommittees = append(subcommittees, sc)
	}
	return subcommittees, rows.Err()
}

// Members returns all stored members ordered by key.
func (s *RosterStore) Members() ([]roster.Member, error) {
	rows, err := s.db.Query(
		`SELECT member_key, display_name, state, district, source_date, page, source_url, content_hash
		 FROM members ORDER BY member_key`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []roster.Member
	for rows.Next() {
		var m roster.Member
		if err := rows.Scan(
			&m.MemberKey, &m.DisplayName, &m.State, &m.District,
			&m.SourceDate, &m.Page, &m.SourceURL, &m.ContentHash,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Assignments returns every stored assignment ordered by key.
func (s *RosterStore) Assignments() ([]roster.Assignment, error) {
	rows, err := s.db.Query(
		`SELECT assignment_key, member_key, committee_key, committee_only_key, subcommittee_key,
		        role, grp, position, source_date, page, source_url, content_hash, raw_line
		 FROM assignments ORDER BY assignment_key`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

// Snapshot reassembles the currently stored roster as one result, used by
// the export endpoint.
func (s *RosterStore) Snapshot() (*roster.ParseResult, error) {
	committees, err := s.Committees()
	if err != nil {
		return nil, fmt.Errorf("failed to load committees: %w", err)
	}
	subcommittees, err := s.Subcommittees()
	if err != nil {
		return nil, fmt.Errorf("failed to load subcommittees: %w", err)
	}
	members, err := s.Members()
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	assignments, err := s.Assignments()
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	return &roster.ParseResult{
		Committees:    committees,
		Subcommittees: subcommittees,
		Members:       members,
		Assignments:   assignments,
		Status:        roster.StatusSuccess,
	}, nil
}

// Counts reports stored row counts, used by the health endpoint.
func (s *RosterStore) Counts() (committees, subcommittees, members, assignments int, err error) {
	counts := []struct {
		table string
		dest  *int
	}{
		{"committees", &committees},
		{"subcommittees", &subcommittees},
		{"members", &members},
		{"assignments", &assignments},
	}
	for _, c := range counts {
		if err = s.db.QueryRow("SELECT COUNT(*) FROM " + c.table).Scan(c.dest); err != nil {
			return 0, 0, 0, 0, err
		}
	}
	return committees, subcommittees, members, assignments, nil
}
