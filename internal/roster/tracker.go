// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package roster

// sectionRef identifies the committee or subcommittee a member block belongs
// to while lines stream by.
type sectionRef struct {
	Key         string
	DisplayName string
}

// tracker is the cross-line context carried through the fold over lines.
// It is a plain value threaded through the loop, never a field on the
// engine, so concurrent parses cannot share it.
type tracker struct {
	committee             *sectionRef
	subcommittee          *sectionRef
	inSubcommitteeSection bool
	// inMajority defaults true at the start of every member block and flips
	// on the literal MAJORITY/MINORITY marker lines.
	inMajority bool
}

func newTracker() tracker {
	return tracker{inMajority: true}
}

// enterCommittee makes c the current committee and resets all nested state:
// subcommittee context, the subcommittee-section flag, and the group marker.
func (t *tracker) enterCommittee(c sectionRef) {
	t.committee = &c
	t.subcommittee = nil
	t.inSubcommitteeSection = false
	t.inMajority = true
}

// enterSubcommitteeSection switches to the "subcommittees of committee X"
// part of the document without leaving the parent committee.
func (t *tracker) enterSubcommitteeSection(parent sectionRef) {
	t.committee = &parent
	t.subcommittee = nil
	t.inSubcommitteeSection = true
	t.inMajority = true
}

func (t *tracker) enterSubcommittee(s sectionRef) {
	t.subcommittee = &s
	t.inMajority = true
}

// activeGroup is the group a single numbered entry belongs to.
func (t *tracker) activeGroup() string {
	if t.inMajority {
		return GroupMajority
	}
	return GroupMinority
}

// oppositeGroup covers the second entry of a combined majority/minority row.
func (t *tracker) oppositeGroup() string {
	if t.inMajority {
		return GroupMinority
	}
	return GroupMajority
}
