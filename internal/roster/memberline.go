// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package roster

import (
	"regexp"
	"strconv"
	"strings"
)

// memberEntry is one parsed name/state/role tuple from a member line. A
// single physical line can carry two entries: the source prints majority
// members in the left column and minority members in the right column of the
// same row.
type memberEntry struct {
	Position int
	Name     string
	State    string
	District string
	Role     string
	Numbered bool
}

var (
	numberedLineRe   = regexp.MustCompile(`^\d{1,2}\.\s`)
	numberMarkerRe   = regexp.MustCompile(`\d{1,2}\.\s`)
	numberedEntryRe  = regexp.MustCompile(`^(\d{1,2})\.\s*(.+)$`)
	stateDistrictRe  = regexp.MustCompile(`^([A-Z]{2})(\d{2})?$`)
	whitespaceRunRe  = regexp.MustCompile(`\s+`)
	unnumberedMemberRe = regexp.MustCompile(
		`([A-Z][A-Za-z.'’\-]*(?:\s+[A-Za-z.'’\-]+)*?),\s+([A-Z]{2})(\d{2})?(?:,\s*(Ranking Member|Vice Chair|Ex Officio|Chairman|Chair))?`)
)

// parseMemberLine attempts the numbered grammar first, then, only when a
// subcommittee context is active, the unnumbered grammar. Returns nil when
// neither grammar matches.
func parseMemberLine(line string, inSubcommittee bool) []memberEntry {
	if numberedLineRe.MatchString(line) {
		return parseNumberedLine(line)
	}
	if inSubcommittee {
		return parseUnnumberedLine(line)
	}
	return nil
}

// parseNumberedLine handles "<n>. <name>[, of <State>][, <role>]", including
// rows that concatenate a majority and a minority entry: the line is split
// at every "digits-dot" marker and each fragment parses independently.
func parseNumberedLine(line string) []memberEntry {
	starts := numberMarkerRe.FindAllStringIndex(line, -1)
	if len(starts) == 0 {
		return nil
	}

	var entries []memberEntry
	for i, loc := range starts {
		end := len(line)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		fragment := strings.TrimSpace(line[loc[0]:end])
		if entry, ok := parseNumberedFragment(fragment); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func parseNumberedFragment(fragment string) (memberEntry, bool) {
	m := numberedEntryRe.FindStringSubmatch(fragment)
	if m == nil {
		return memberEntry{}, false
	}
	position, err := strconv.Atoi(m[1])
	if err != nil {
		return memberEntry{}, false
	}

	parts := strings.Split(m[2], ",")
	name := cleanName(parts[0])
	if name == "" {
		return memberEntry{}, false
	}

	entry := memberEntry{
		Position: position,
		Name:     name,
		Role:     RoleMember,
		Numbered: true,
	}

	var trailing []string
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch {
		case entry.State == "" && strings.HasPrefix(strings.ToLower(part), "of "):
			entry.State, entry.District = splitStateDistrict(strings.TrimSpace(part[3:]))
		case entry.State == "" && stateDistrictRe.MatchString(strings.Fields(part)[0]):
			entry.State, entry.District = splitStateDistrict(strings.Fields(part)[0])
		default:
			trailing = append(trailing, part)
		}
	}
	if role, ok := extractRole(strings.Join(trailing, ", ")); ok {
		entry.Role = role
	}
	return entry, true
}

// parseUnnumberedLine extracts one or two "<Name>, <ST>[, <role>]" tuples
// from an unnumbered subcommittee roster line.
func parseUnnumberedLine(line string) []memberEntry {
	var entries []memberEntry
	for _, m := range unnumberedMemberRe.FindAllStringSubmatch(line, -1) {
		name := cleanName(m[1])
		if name == "" {
			continue
		}
		entry := memberEntry{
			Name: name,
			Role: RoleMember,
		}
		entry.State, entry.District = splitStateDistrict(m[2] + m[3])
		if m[4] != "" {
			if role, ok := extractRole(m[4]); ok {
				entry.Role = role
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// splitStateDistrict splits "TX32" into ("TX", "32"). Anything not matching
// the two-letter-plus-optional-district shape is kept whole as an unparsed
// state string.
func splitStateDistrict(s string) (state, district string) {
	if m := stateDistrictRe.FindStringSubmatch(s); m != nil {
		return m[1], m[2]
	}
	return s, ""
}

// extractRole searches free text for one of the fixed role keywords,
// case-insensitively. Keyword order matters: "Chairman" before "Chair".
func extractRole(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, keyword := range roleKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return keyword, true
		}
	}
	return "", false
}

func cleanName(s string) string {
	s = whitespaceRunRe.ReplaceAllString(strings.TrimSpace(s), " ")
	return strings.TrimSuffix(s, ".")
}
