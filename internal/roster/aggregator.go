// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package roster

import (
	"fmt"

	"github.com/roster-watch/internal/logger"
)

// aggregator collects entities as the fold emits them. Slices keep
// first-sighting order so two runs over the same bytes produce identical
// results; the maps exist only for dedup lookups.
type aggregator struct {
	src Source

	committees   []Committee
	committeeIdx map[string]int

	subcommittees []Subcommittee
	subIdx        map[string]int

	members   []Member
	memberIdx map[string]int

	assignments []Assignment
	assignSeen  map[string]bool
}

func newAggregator(src Source) *aggregator {
	return &aggregator{
		src:          src,
		committeeIdx: make(map[string]int),
		subIdx:       make(map[string]int),
		memberIdx:    make(map[string]int),
		assignSeen:   make(map[string]bool),
	}
}

func (a *aggregator) provenance(page int) Provenance {
	return Provenance{
		SourceDate:  a.src.Date,
		Page:        page,
		SourceURL:   a.src.URL,
		ContentHash: a.src.ContentHash,
	}
}

// ensureCommittee returns the committee for displayName, creating it on
// first sighting. Committees are never mutated after creation within a run.
func (a *aggregator) ensureCommittee(displayName, committeeType string, page int) sectionRef {
	key := CommitteeKeyFor(displayName)
	if idx, ok := a.committeeIdx[key]; ok {
		return sectionRef{Key: key, DisplayName: a.committees[idx].DisplayName}
	}
	a.committeeIdx[key] = len(a.committees)
	a.committees = append(a.committees, Committee{
		CommitteeKey: key,
		DisplayName:  displayName,
		Chamber:      Chamber,
		Type:         committeeType,
		Provenance:   a.provenance(page),
	})
	return sectionRef{Key: key, DisplayName: displayName}
}

// setRatio fills the ratio printed directly below a committee header. It is
// part of the creation window: once set it never changes.
func (a *aggregator) setRatio(committee *sectionRef, ratio string) {
	if committee == nil {
		return
	}
	if idx, ok := a.committeeIdx[committee.Key]; ok && a.committees[idx].Ratio == "" {
		a.committees[idx].Ratio = ratio
	}
}

func (a *aggregator) ensureSubcommittee(parent sectionRef, displayName string, page int) sectionRef {
	key := SubcommitteeKeyFor(parent.Key, displayName)
	if idx, ok := a.subIdx[key]; ok {
		return sectionRef{Key: key, DisplayName: a.subcommittees[idx].DisplayName}
	}
	a.subIdx[key] = len(a.subcommittees)
	a.subcommittees = append(a.subcommittees, Subcommittee{
		SubcommitteeKey: key,
		CommitteeKey:    parent.Key,
		CommitteeName:   parent.DisplayName,
		DisplayName:     displayName,
		Provenance:      a.provenance(page),
	})
	return sectionRef{Key: key, DisplayName: displayName}
}

func (a *aggregator) ensureMember(entry memberEntry, page int) string {
	key := MemberKeyFor(entry.Name, entry.State, entry.District)
	if _, ok := a.memberIdx[key]; ok {
		return key
	}
	a.memberIdx[key] = len(a.members)
	a.members = append(a.members, Member{
		MemberKey:   key,
		DisplayName: entry.Name,
		State:       entry.State,
		District:    entry.District,
		Provenance:  a.provenance(page),
	})
	return key
}

// addAssignment records one member/target pairing with assignment-level
// provenance including the verbatim source line. Duplicate keys (a member
// printed twice for the same target in the same edition) keep the first
// sighting.
func (a *aggregator) addAssignment(committee sectionRef, subcommittee *sectionRef, entry memberEntry, group string, page int, rawLine string) {
	memberKey := a.ensureMember(entry, page)

	targetKey := committee.Key
	committeeOnlyKey := committee.Key
	subcommitteeKey := ""
	if subcommittee != nil {
		targetKey = subcommittee.Key
		committeeOnlyKey = ""
		subcommitteeKey = subcommittee.Key
	}

	key := AssignmentKeyFor(memberKey, targetKey, a.src.Date)
	if a.assignSeen[key] {
		logger.Debugf("duplicate assignment %s (page %d), keeping first sighting", key, page)
		return
	}
	a.assignSeen[key] = true

	prov := a.provenance(page)
	prov.RawLine = rawLine

	a.assignments = append(a.assignments, Assignment{
		AssignmentKey:    key,
		MemberKey:        memberKey,
		CommitteeKey:     committee.Key,
		CommitteeOnlyKey: committeeOnlyKey,
		SubcommitteeKey:  subcommitteeKey,
		Role:             entry.Role,
		Group:            group,
		Position:         entry.Position,
		Provenance:       prov,
	})
}

// finalize runs terminal validation. A result below the plausibility floors
// is Degraded but still fully populated; discarding it is the caller's
// policy decision, not the parser's.
func (a *aggregator) finalize(opts Options) *ParseResult {
	result := &ParseResult{
		Committees:    a.committees,
		Subcommittees: a.subcommittees,
		Members:       a.members,
		Assignments:   a.assignments,
		Status:        StatusSuccess,
	}

	if len(a.committees) < opts.MinCommittees {
		result.Status = StatusDegraded
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("only %d committees found, expected at least %d; the source format may have changed",
				len(a.committees), opts.MinCommittees))
	}
	if opts.RequireSubcommittees && len(a.subcommittees) == 0 {
		result.Status = StatusDegraded
		result.Warnings = append(result.Warnings,
			"no subcommittees found; the source format may have changed")
	}
	return result
}
