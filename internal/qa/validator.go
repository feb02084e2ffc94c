// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package qa cross-checks a parse result against a second, independent
// text extraction of the same document. The parser reads word geometry;
// the check here uses plain page text, so a systematic line-reconstruction
// bug shows up as names the fallback text can't find.
package qa

import (
	"fmt"
	"strings"

	"github.com/roster-watch/internal/pdftext"
	"github.com/roster-watch/internal/roster"
)

// sampleSize caps how many members are checked per run.
const sampleSize = 25

// Report summarizes one validation pass.
type Report struct {
	CheckedCommittees int      `json:"checked_committees"`
	CheckedMembers    int      `json:"checked_members"`
	Missing           []string `json:"missing,omitempty"`
}

// OK reports whether everything sampled was found.
func (r Report) OK() bool {
	return len(r.Missing) == 0
}

// Validate extracts plain text from the document and checks the result
// against it.
func Validate(data []byte, result *roster.ParseResult) (Report, error) {
	pages, err := pdftext.ExtractPlainPages(data)
	if err != nil {
		return Report{}, fmt.Errorf("fallback extraction failed: %w", err)
	}
	return CheckAgainstText(result, pages), nil
}

// CheckAgainstText verifies that every committee name and a sample of
// member names appear in the document's plain text. Comparison is
// case-insensitive with whitespace collapsed, because the two extraction
// paths disagree on spacing.
func CheckAgainstText(result *roster.ParseResult, pages []string) Report {
	corpus := normalize(strings.Join(pages, " "))

	var report Report
	for _, c := range result.Committees {
		report.CheckedCommittees++
		if !strings.Contains(corpus, normalize(c.DisplayName)) {
			report.Missing = append(report.Missing, "committee: "+c.DisplayName)
		}
	}

	for _, m := range sampleMembers(result.Members) {
		report.CheckedMembers++
		if !strings.Contains(corpus, normalize(m.DisplayName)) {
			report.Missing = append(report.Missing, "member: "+m.DisplayName)
		}
	}

	return report
}

// sampleMembers spreads the sample across the roster instead of taking
// the first N, so every page contributes.
func sampleMembers(members []roster.Member) []roster.Member {
	if len(members) <= sampleSize {
		return members
	}
	step := len(members) / sampleSize
	sampled := make([]roster.Member, 0, sampleSize)
	for i := 0; i < len(members) && len(sampled) < sampleSize; i += step {
		sampled = append(sampled, members[i])
	}
	return sampled
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
