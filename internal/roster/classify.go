// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package roster

import (
	"regexp"
	"strings"
)

// lineKind is the tagged outcome of classifying a single repaired line.
// Downstream dispatch is an exhaustive switch over this, not a chain of
// nullable checks.
type lineKind int

const (
	lineNoise lineKind = iota
	lineStandingList
	lineSubcommitteeSection
	lineMajorityMarker
	lineMinorityMarker
	lineRatio
	lineCommitteeHeader
	lineSubcommitteeHeader
	lineMemberText
)

type classifiedLine struct {
	kind lineKind
	// name is the corrected display name for committee, subcommittee and
	// subcommittee-section lines.
	name string
	// committeeType is set for lineCommitteeHeader: Standing, Select, Joint.
	committeeType string
	// ratio holds the "N-M" string for lineRatio.
	ratio string
}

var (
	subcommitteeSectionRe = regexp.MustCompile(`(?i)^SUBCOMMITTEES?\s+OF\s+THE\s+(?:PERMANENT\s+SELECT\s+)?COMMITTEE\s+ON\s+(.+)$`)
	ratioRe               = regexp.MustCompile(`(?i)ratio[^0-9]*(\d+\s*[-–/:]\s*\d+)`)
	headerCharsetRe       = regexp.MustCompile(`^[A-Z ,&'’\-\[\]]+$`)
)

// classifyLine decides what a line is. inSubcommitteeSection changes how an
// unrecognized all-caps header is read: inside a subcommittee section it
// names a subcommittee of the current committee, outside it names a new main
// committee. A known main-committee name always wins over that positional
// context, because a genuinely new main committee can appear while the
// section flag is still set.
func classifyLine(line string, inSubcommitteeSection bool) classifiedLine {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return classifiedLine{kind: lineNoise}
	}

	if m := subcommitteeSectionRe.FindStringSubmatch(trimmed); m != nil {
		name := applyTruncationFix(strings.ToUpper(strings.TrimSpace(m[1])))
		return classifiedLine{kind: lineSubcommitteeSection, name: name}
	}

	if strings.Contains(trimmed, "ALPHABETICAL LIST OF STANDING COMMITTEES") ||
		(len(trimmed) < 40 && strings.Contains(trimmed, "STANDING COMMITTEES")) {
		return classifiedLine{kind: lineStandingList}
	}

	if m := ratioRe.FindStringSubmatch(trimmed); m != nil {
		return classifiedLine{kind: lineRatio, ratio: strings.Join(strings.Fields(m[1]), "")}
	}

	if isHeaderCandidate(trimmed) {
		// Majority/minority markers are pure side effects, never names.
		if strings.Contains(trimmed, "MAJORITY") {
			return classifiedLine{kind: lineMajorityMarker}
		}
		if strings.Contains(trimmed, "MINORITY") {
			return classifiedLine{kind: lineMinorityMarker}
		}

		// The truncation table must run before every other check so a
		// wrapped name never classifies as a distinct committee.
		name := applyTruncationFix(trimmed)

		if excludedHeader(name) {
			return classifiedLine{kind: lineNoise}
		}

		if ctype, ok := knownCommitteeType(name); ok {
			return classifiedLine{kind: lineCommitteeHeader, name: name, committeeType: ctype}
		}
		if !inSubcommitteeSection {
			return classifiedLine{kind: lineCommitteeHeader, name: name, committeeType: inferCommitteeType(name)}
		}
		return classifiedLine{kind: lineSubcommitteeHeader, name: name}
	}

	return classifiedLine{kind: lineMemberText}
}

// isHeaderCandidate accepts trimmed lines made entirely of uppercase
// letters, spaces, commas, ampersands, apostrophes and hyphens, between 4
// and 100 characters.
func isHeaderCandidate(trimmed string) bool {
	if len(trimmed) < 4 || len(trimmed) > 100 {
		return false
	}
	if !headerCharsetRe.MatchString(trimmed) {
		return false
	}
	return strings.ContainsAny(trimmed, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
}

func applyTruncationFix(name string) string {
	if fixed, ok := truncationFixes[name]; ok {
		return fixed
	}
	return name
}

func excludedHeader(name string) bool {
	for _, phrase := range headerExclusions {
		if strings.Contains(name, phrase) {
			return true
		}
	}
	if strings.HasPrefix(name, "[") || strings.HasSuffix(name, "]") {
		return true
	}
	for _, w := range connectorWords {
		if name == w {
			return true
		}
	}
	return false
}

// knownCommitteeType reports whether the name matches one of the three fixed
// committee name sets, exactly or by containment.
func knownCommitteeType(name string) (string, bool) {
	for _, c := range standingCommittees {
		if name == c || strings.Contains(name, c) {
			return TypeStanding, true
		}
	}
	for _, c := range selectCommittees {
		if name == c || strings.Contains(name, c) {
			return TypeSelect, true
		}
	}
	for _, c := range jointCommittees {
		if name == c || strings.Contains(name, c) {
			return TypeJoint, true
		}
	}
	return "", false
}

// inferCommitteeType types a committee header that matches no known set:
// the fallback keeps a brand-new committee usable until the tables catch up.
func inferCommitteeType(name string) string {
	switch {
	case strings.HasPrefix(name, "JOINT"):
		return TypeJoint
	case strings.Contains(name, "SELECT"):
		return TypeSelect
	default:
		return TypeStanding
	}
}
