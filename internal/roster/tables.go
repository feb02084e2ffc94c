// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package roster

// Fixed lookup tables for header classification. Kept together so they can
// be updated for a new Congress without touching parsing logic.

// standingCommittees lists the standing committees of the House as printed
// in the roster's alphabetical list.
var standingCommittees = []string{
	"AGRICULTURE",
	"APPROPRIATIONS",
	"ARMED SERVICES",
	"BUDGET",
	"EDUCATION AND WORKFORCE",
	"ENERGY AND COMMERCE",
	"ETHICS",
	"FINANCIAL SERVICES",
	"FOREIGN AFFAIRS",
	"HOMELAND SECURITY",
	"HOUSE ADMINISTRATION",
	"JUDICIARY",
	"NATURAL RESOURCES",
	"OVERSIGHT AND GOVERNMENT REFORM",
	"RULES",
	"SCIENCE, SPACE, AND TECHNOLOGY",
	"SMALL BUSINESS",
	"TRANSPORTATION AND INFRASTRUCTURE",
	"VETERANS' AFFAIRS",
	"WAYS AND MEANS",
}

var selectCommittees = []string{
	"PERMANENT SELECT COMMITTEE ON INTELLIGENCE",
	"SELECT COMMITTEE ON THE STRATEGIC COMPETITION BETWEEN THE UNITED STATES AND THE CHINESE COMMUNIST PARTY",
}

var jointCommittees = []string{
	"JOINT ECONOMIC COMMITTEE",
	"JOINT COMMITTEE ON THE LIBRARY",
	"JOINT COMMITTEE ON PRINTING",
	"JOINT COMMITTEE ON TAXATION",
}

// truncationFixes repairs committee names the source wraps across lines and
// loses the tail of. Checked before any other classification so the
// truncated fragment never becomes a spurious second committee.
var truncationFixes = map[string]string{
	"OVERSIGHT AND":       "OVERSIGHT AND GOVERNMENT REFORM",
	"EDUCATION AND":       "EDUCATION AND WORKFORCE",
	"ENERGY AND":          "ENERGY AND COMMERCE",
	"SCIENCE, SPACE, AND": "SCIENCE, SPACE, AND TECHNOLOGY",
	"TRANSPORTATION AND":  "TRANSPORTATION AND INFRASTRUCTURE",
}

// headerExclusions is boilerplate that survives the all-caps candidate
// filter but is never a committee name: masthead text, page furniture,
// ratio labels, bracketed editorial notes, single connector words.
var headerExclusions = []string{
	"ALPHABETICAL LIST",
	"HOUSE OF REPRESENTATIVES",
	"ONE HUNDRED",
	"CONGRESS",
	"DEMOCRATS",
	"REPUBLICANS",
	"WASHINGTON",
	"CONTENTS",
	"PREPARED UNDER",
	"SELECT COMMITTEES",
	"JOINT COMMITTEES",
	"STANDING COMMITTEES",
	"OFFICIAL ALPHABETICAL",
	"COMMITTEE ASSIGNMENTS",
	"MEETS IN",
	"VACANCY",
	"VACANCIES",
}

// connectorWords are single-word candidates that are always line-wrap debris.
var connectorWords = []string{"AND", "OF", "ON", "THE", "FOR"}

// roleKeywords is the closed-ish role vocabulary, ordered so that longer
// keywords win ("Chairman" must be checked before "Chair").
var roleKeywords = []string{
	"Ranking Member",
	"Vice Chair",
	"Ex Officio",
	"Chairman",
	"Chair",
}

// RoleMember is the default role when a member line carries none.
const RoleMember = "Member"

var monthNumbers = map[string]int{
	"january":   1,
	"february":  2,
	"march":     3,
	"april":     4,
	"may":       5,
	"june":      6,
	"july":      7,
	"august":    8,
	"september": 9,
	"october":   10,
	"november":  11,
	"december":  12,
}
