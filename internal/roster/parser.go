// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package roster parses the House "Standing and Select Committees" roster
// PDF into committees, subcommittees, members and member assignments, each
// carrying full source provenance. The document has no stable schema, so
// everything is inferred from line context: all-caps headers, numbered and
// unnumbered member rows, and majority/minority marker lines.
package roster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roster-watch/internal/logger"
	"github.com/roster-watch/internal/pdftext"
)

// ErrNoCoverDate is returned when no source date was supplied and page one
// carries no recognizable cover date. There is no fallback date: every
// entity key depends on it.
var ErrNoCoverDate = errors.New("no cover date found on page one")

// Engine parses roster documents. It holds only immutable options, so one
// instance may be reused across concurrent parses; all mutable state lives
// in per-call values.
type Engine struct {
	opts Options
}

func NewEngine(opts Options) *Engine {
	if opts.MinCommittees <= 0 {
		opts.MinCommittees = DefaultOptions().MinCommittees
	}
	return &Engine{opts: opts}
}

// Parse reads a roster PDF and returns the normalized dataset. Structural
// failures (unreadable stream, broken PDF, zero pages, missing cover date)
// return an error; content anomalies never do — they degrade the result
// instead.
func (e *Engine) Parse(ctx context.Context, r io.Reader, src Source) (*ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	pages, err := pdftext.ExtractLines(ctx, data)
	if err != nil {
		return nil, err
	}

	if src.Date == "" {
		date, ok := ExtractCoverDate(strings.Join(pages[0], "\n"))
		if !ok {
			return nil, ErrNoCoverDate
		}
		src.Date = date
	}

	return e.ParseLines(pages, src), nil
}

// ParseLines is the parser core: a sequential fold over reconstructed text
// lines. It is exported so the state machine can be exercised without PDF
// bytes. Pages must be in document order; later pages' classification
// depends on state carried forward from earlier ones.
func (e *Engine) ParseLines(pages [][]string, src Source) *ParseResult {
	agg := newAggregator(src)
	st := newTracker()

	for pageIdx, lines := range pages {
		page := pageIdx + 1
		for _, raw := range lines {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}
			line = RepairLine(line)

			c := classifyLine(line, st.inSubcommitteeSection)
			switch c.kind {
			case lineNoise:
				// boilerplate, skipped

			case lineStandingList:
				// Back in the main committee list.
				st.inSubcommitteeSection = false

			case lineSubcommitteeSection:
				ctype, known := knownCommitteeType(c.name)
				if !known {
					ctype = inferCommitteeType(c.name)
				}
				parent := agg.ensureCommittee(c.name, ctype, page)
				st.enterSubcommitteeSection(parent)

			case lineMajorityMarker:
				st.inMajority = true

			case lineMinorityMarker:
				st.inMajority = false

			case lineRatio:
				agg.setRatio(st.committee, c.ratio)

			case lineCommitteeHeader:
				st.enterCommittee(agg.ensureCommittee(c.name, c.committeeType, page))

			case lineSubcommitteeHeader:
				if st.committee == nil {
					logger.Debugf("subcommittee header %q with no committee context (page %d), dropped", c.name, page)
					continue
				}
				st.enterSubcommittee(agg.ensureSubcommittee(*st.committee, c.name, page))

			case lineMemberText:
				e.handleMemberLine(agg, &st, line, page)
			}
		}
	}

	return agg.finalize(e.opts)
}

func (e *Engine) handleMemberLine(agg *aggregator, st *tracker, line string, page int) {
	entries := parseMemberLine(line, st.subcommittee != nil)
	if len(entries) == 0 {
		return
	}
	if st.committee == nil {
		// Cannot be associated with any committee; dropped, not fabricated.
		logger.Debugf("member line with no committee context (page %d): %q", page, line)
		return
	}

	for i, entry := range entries {
		group := entryGroup(st, entry, i)
		agg.addAssignment(*st.committee, st.subcommittee, entry, group, page, line)
	}
}

// entryGroup applies the source's column convention. Numbered rows print the
// active section's group on the left; when a row carries two entries the
// second belongs to the opposite group. Unnumbered subcommittee rows always
// print Majority left, Minority right.
func entryGroup(st *tracker, entry memberEntry, index int) string {
	if entry.Numbered {
		if index == 0 {
			return st.activeGroup()
		}
		return st.oppositeGroup()
	}
	if index == 0 {
		return GroupMajority
	}
	return GroupMinority
}
