// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package roster

// Provenance ties an extracted record back to its exact source document.
// RawLine is only populated on assignments, where the verbatim source line
// matters for auditability.
type Provenance struct {
	SourceDate  string `json:"source_date"`
	Page        int    `json:"page"`
	SourceURL   string `json:"source_url"`
	ContentHash string `json:"content_hash"`
	RawLine     string `json:"raw_line,omitempty"`
}

// Committee is a top-level House committee. One record per committee per
// parse run, created the first time its header is seen (directly or
// implicitly through a subcommittee-section header).
type Committee struct {
	CommitteeKey string `json:"committee_key"`
	DisplayName  string `json:"display_name"`
	Chamber      string `json:"chamber"`
	Type         string `json:"type"` // Standing, Select, Joint
	Ratio        string `json:"ratio,omitempty"`
	Provenance
}

// Subcommittee belongs to exactly one parent committee. The compound key
// keeps similarly named subcommittees of different committees distinct.
type Subcommittee struct {
	SubcommitteeKey string `json:"subcommittee_key"`
	CommitteeKey    string `json:"committee_key"`
	CommitteeName   string `json:"committee_name"`
	DisplayName     string `json:"display_name"`
	Notes           string `json:"notes,omitempty"`
	Provenance
}

// Member is deduplicated within a run; provenance records the first sighting.
type Member struct {
	MemberKey   string `json:"member_key"`
	DisplayName string `json:"display_name"`
	State       string `json:"state,omitempty"`
	District    string `json:"district,omitempty"`
	Provenance
}

// Assignment links a member to a committee or subcommittee. The source date
// is part of the key on purpose: every document edition is a distinct
// historical snapshot, not an overwrite of the previous one.
type Assignment struct {
	AssignmentKey string `json:"assignment_key"`
	MemberKey     string `json:"member_key"`
	// CommitteeKey is the top-level committee, populated even for
	// subcommittee assignments so "all activity under committee X" is a
	// single-key query.
	CommitteeKey     string `json:"committee_key"`
	CommitteeOnlyKey string `json:"committee_only_key,omitempty"`
	SubcommitteeKey  string `json:"subcommittee_key,omitempty"`
	Role             string `json:"role"`
	Group            string `json:"group"` // Majority or Minority
	Position         int    `json:"position"`
	Provenance
}

// Status reports whether a run passed the plausibility thresholds.
type Status string

const (
	StatusSuccess  Status = "Success"
	StatusDegraded Status = "Degraded"
)

const (
	GroupMajority = "Majority"
	GroupMinority = "Minority"
)

const (
	TypeStanding = "Standing"
	TypeSelect   = "Select"
	TypeJoint    = "Joint"
)

// Chamber is fixed for this dataset; the roster only covers the House.
const Chamber = "House"

// ParseResult is the aggregate output of a single parse run. A Degraded
// result is still fully populated; whether to keep it is the caller's call.
type ParseResult struct {
	Committees    []Committee    `json:"committees"`
	Subcommittees []Subcommittee `json:"subcommittees"`
	Members       []Member       `json:"members"`
	Assignments   []Assignment   `json:"assignments"`
	Status        Status         `json:"status"`
	Warnings      []string       `json:"warnings,omitempty"`
}

// Source carries the caller-supplied provenance for a parse run. Date may be
// left empty, in which case the cover date is extracted from page one and a
// missing cover date becomes a hard failure.
type Source struct {
	Date        string
	URL         string
	ContentHash string
}

// Options holds the plausibility thresholds. Committee counts change between
// Congresses, so these are configuration rather than constants.
type Options struct {
	MinCommittees        int
	RequireSubcommittees bool
}

// DefaultOptions matches the current structure of the House committee system.
func DefaultOptions() Options {
	return Options{
		MinCommittees:        8,
		RequireSubcommittees: true,
	}
}
