// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package roster

import (
	"reflect"
	"testing"
)

const fixtureDate = "2025-09-16"

func fixtureSource() Source {
	return Source{
		Date:        fixtureDate,
		URL:         "https://clerk.house.gov/committee_info/scsoal.pdf",
		ContentHash: "a1b2c3d4e5f6",
	}
}

// referencePages mirrors the structure of the 2025-09-16 edition around the
// committees Pete Sessions sits on, plus enough other committees to clear
// the plausibility floor.
func referencePages() [][]string {
	return [][]string{
		{
			"HOUSE OF REPRESENTATIVES",
			"ONE HUNDRED NINETEENTH CONGRESS",
			"OFFICIAL ALPHABETICAL LIST",
			"September 16, 2025",
			"WASHINGTON",
		},
		{
			"ALPHABETICAL LIST OF STANDING COMMITTEES",
			"AGRICULTURE",
			"1. Glenn Thompson, of Pennsylvania, Chairman. 1. Angie Craig, MN",
			"APPROPRIATIONS",
			"1. Tom Cole, OK 1. Rosa De Lauro, CT",
			"ARMED SERVICES",
			"1. Mike Rogers, AL 1. Adam Smith, WA",
			"BUDGET",
			"1. Jodey Arrington, TX 1. Brendan Boyle, PA",
		},
		{
			"EDUCATION AND WORKFORCE",
			"1. Tim Walberg, MI 1. Bobby Scott, VA",
			"ENERGY AND COMMERCE",
			"1. Brett Guthrie, KY 1. Frank Pallone, NJ",
			"RULES",
			"1. Virginia Foxx, NC 1. Jim Mc Govern, MA",
		},
		{
			"FINANCIAL SERVICES",
			"(Ratio: 26-22)",
			"MAJORITY",
			"1. French Hill, AR 1. Maxine Waters, CA",
			"2. Frank Lucas, OK 2. Nydia M. Velazquez, NY",
			"3. Pete Sessions, TX 3. Brad Sherman, CA",
		},
		{
			"SUBCOMMITTEES OF THE COMMITTEE ON FINANCIAL SERVICES",
			"CAPITAL MARKETS",
			"Ann Wagner, MO, Chair Brad Sherman, CA, Ranking Member",
			"Pete Sessions, TX Juan Vargas, CA",
			"NATIONAL SECURITY, ILLICIT FINANCE, AND INTERNATIONAL FINANCIAL INSTITUTIONS",
			"Warren Davidson, OH, Chairman Joyce Beatty, OH, Ranking Member",
			"Pete Sessions, TX Vicente Gonzalez, TX",
		},
		{
			"NATURAL RESOURCES",
			"1. Bruce Westerman, AR 1. Jared Huffman, CA",
			"SUBCOMMITTEES OF THE COMMITTEE ON NATURAL RESOURCES",
			"WATER, WILDLIFE AND FISHERIES",
			"1. Cliff Bentz, OR 1. Jared Huffman, CA",
			"10. Pete Sessions, TX",
		},
		{
			"OVERSIGHT AND",
			"1. James Comer, KY 1. Stephen F. Lynch, MA",
			"SUBCOMMITTEES OF THE COMMITTEE ON OVERSIGHT AND",
			"FEDERAL LAW ENFORCEMENT",
			"Pete Sessions, TX, Chairman Dave Min, CA, Ranking Member",
			"GOVERNMENT OPERATIONS",
			"Pete Sessions, TX Kweisi Mfume, MD",
		},
	}
}

func parseFixture(t *testing.T) *ParseResult {
	t.Helper()
	engine := NewEngine(DefaultOptions())
	return engine.ParseLines(referencePages(), fixtureSource())
}

func TestParseLines_Success(t *testing.T) {
	result := parseFixture(t)
	if result.Status != StatusSuccess {
		t.Fatalf("Status = %s, expected Success (warnings: %v)", result.Status, result.Warnings)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", result.Warnings)
	}
	if len(result.Committees) != 10 {
		t.Errorf("Expected 10 committees, got %d", len(result.Committees))
	}
	if len(result.Subcommittees) != 5 {
		t.Errorf("Expected 5 subcommittees, got %d", len(result.Subcommittees))
	}
}

func TestParseLines_KeyUniqueness(t *testing.T) {
	result := parseFixture(t)

	seen := make(map[string]bool)
	for _, c := range result.Committees {
		if seen[c.CommitteeKey] {
			t.Errorf("Duplicate committee key: %s", c.CommitteeKey)
		}
		seen[c.CommitteeKey] = true
	}
	seen = make(map[string]bool)
	for _, s := range result.Subcommittees {
		if seen[s.SubcommitteeKey] {
			t.Errorf("Duplicate subcommittee key: %s", s.SubcommitteeKey)
		}
		seen[s.SubcommitteeKey] = true
	}
	seen = make(map[string]bool)
	for _, m := range result.Members {
		if seen[m.MemberKey] {
			t.Errorf("Duplicate member key: %s", m.MemberKey)
		}
		seen[m.MemberKey] = true
	}
	seen = make(map[string]bool)
	for _, a := range result.Assignments {
		if seen[a.AssignmentKey] {
			t.Errorf("Duplicate assignment key: %s", a.AssignmentKey)
		}
		seen[a.AssignmentKey] = true
	}
}

// Every assignment must resolve against the result's own entity lists. A
// dangling reference is a parser bug, not a source anomaly.
func TestParseLines_ReferentialIntegrity(t *testing.T) {
	result := parseFixture(t)

	members := make(map[string]bool)
	for _, m := range result.Members {
		members[m.MemberKey] = true
	}
	committees := make(map[string]bool)
	for _, c := range result.Committees {
		committees[c.CommitteeKey] = true
	}
	subcommittees := make(map[string]bool)
	for _, s := range result.Subcommittees {
		subcommittees[s.SubcommitteeKey] = true
	}

	for _, a := range result.Assignments {
		if !members[a.MemberKey] {
			t.Errorf("Assignment %s references unknown member %s", a.AssignmentKey, a.MemberKey)
		}
		if !committees[a.CommitteeKey] {
			t.Errorf("Assignment %s references unknown committee %s", a.AssignmentKey, a.CommitteeKey)
		}
		switch {
		case a.SubcommitteeKey != "" && a.CommitteeOnlyKey != "":
			t.Errorf("Assignment %s has both target keys set", a.AssignmentKey)
		case a.SubcommitteeKey != "":
			if !subcommittees[a.SubcommitteeKey] {
				t.Errorf("Assignment %s references unknown subcommittee %s", a.AssignmentKey, a.SubcommitteeKey)
			}
		case a.CommitteeOnlyKey != "":
			if !committees[a.CommitteeOnlyKey] {
				t.Errorf("Assignment %s references unknown committee %s", a.AssignmentKey, a.CommitteeOnlyKey)
			}
		default:
			t.Errorf("Assignment %s has no target key", a.AssignmentKey)
		}
	}
}

func TestParseLines_Idempotence(t *testing.T) {
	first := parseFixture(t)
	second := parseFixture(t)
	if !reflect.DeepEqual(first, second) {
		t.Error("Two parses of the same pages produced different results")
	}
}

func TestParseLines_PeteSessionsScenario(t *testing.T) {
	result := parseFixture(t)

	var sessions []Assignment
	for _, a := range result.Assignments {
		if a.MemberKey == "pete-sessions-tx" {
			sessions = append(sessions, a)
		}
	}
	if len(sessions) != 6 {
		t.Fatalf("Expected 6 Pete Sessions assignments, got %d: %+v", len(sessions), sessions)
	}

	byTarget := make(map[string]Assignment)
	for _, a := range sessions {
		target := a.SubcommitteeKey
		if target == "" {
			target = a.CommitteeOnlyKey
		}
		byTarget[target] = a
	}

	fs := byTarget["financial-services"]
	if fs.Position != 3 || fs.Group != GroupMajority || fs.Role != RoleMember {
		t.Errorf("Financial Services assignment wrong: %+v", fs)
	}
	if fs.RawLine == "" {
		t.Error("Assignment provenance is missing the raw source line")
	}

	capMkts := byTarget["financial-services::capital-markets"]
	if capMkts.Group != GroupMajority || capMkts.Position != 0 {
		t.Errorf("Capital Markets assignment wrong: %+v", capMkts)
	}

	natsec := byTarget["financial-services::national-security-illicit-finance-and-international-financial-institutions"]
	if natsec.Group != GroupMajority || natsec.Position != 0 {
		t.Errorf("National Security/Illicit Finance assignment wrong: %+v", natsec)
	}

	water := byTarget["natural-resources::water-wildlife-and-fisheries"]
	if water.Position != 10 || water.Group != GroupMajority {
		t.Errorf("Natural Resources subcommittee assignment wrong: %+v", water)
	}

	fle := byTarget["oversight-and-government-reform::federal-law-enforcement"]
	if fle.Role != "Chairman" || fle.Group != GroupMajority {
		t.Errorf("Federal Law Enforcement assignment wrong: %+v", fle)
	}

	ops := byTarget["oversight-and-government-reform::government-operations"]
	if ops.Group != GroupMajority || ops.Role != RoleMember {
		t.Errorf("Government Operations assignment wrong: %+v", ops)
	}

	// Six assignments, exactly one member record.
	count := 0
	for _, m := range result.Members {
		if m.MemberKey == "pete-sessions-tx" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected exactly 1 Pete Sessions member record, got %d", count)
	}
}

func TestParseLines_DualEntrySplit(t *testing.T) {
	pages := [][]string{{
		"FINANCIAL SERVICES",
		"14. Carlos A. Gimenez, FL 14. Marilyn Strickland, WA",
	}}
	engine := NewEngine(DefaultOptions())
	result := engine.ParseLines(pages, fixtureSource())

	if len(result.Assignments) != 2 {
		t.Fatalf("Expected 2 assignments, got %d", len(result.Assignments))
	}
	first, second := result.Assignments[0], result.Assignments[1]
	if first.MemberKey != "carlos-a-gimenez-fl" || first.Group != GroupMajority || first.Position != 14 {
		t.Errorf("First assignment wrong: %+v", first)
	}
	if second.MemberKey != "marilyn-strickland-wa" || second.Group != GroupMinority || second.Position != 14 {
		t.Errorf("Second assignment wrong: %+v", second)
	}
}

// Pins the column convention: if the source ever prints two majority members
// on one row (minority vacancy), this fails loudly instead of silently
// misclassifying.
func TestParseLines_DualEntryGroupFollowsSection(t *testing.T) {
	pages := [][]string{{
		"FINANCIAL SERVICES",
		"MINORITY",
		"5. Maxine Waters, CA 5. French Hill, AR",
	}}
	engine := NewEngine(DefaultOptions())
	result := engine.ParseLines(pages, fixtureSource())

	if len(result.Assignments) != 2 {
		t.Fatalf("Expected 2 assignments, got %d", len(result.Assignments))
	}
	if result.Assignments[0].Group != GroupMinority {
		t.Errorf("First entry group = %s, expected the active Minority section", result.Assignments[0].Group)
	}
	if result.Assignments[1].Group != GroupMajority {
		t.Errorf("Second entry group = %s, expected the opposite of the active section", result.Assignments[1].Group)
	}
}

func TestParseLines_DegradedThresholds(t *testing.T) {
	pages := [][]string{{
		"AGRICULTURE",
		"1. Glenn Thompson, PA",
		"APPROPRIATIONS",
		"1. Tom Cole, OK",
		"ARMED SERVICES",
		"1. Mike Rogers, AL",
		"BUDGET",
		"1. Jodey Arrington, TX",
		"RULES",
		"1. Virginia Foxx, NC",
	}}
	engine := NewEngine(DefaultOptions())
	result := engine.ParseLines(pages, fixtureSource())

	if result.Status != StatusDegraded {
		t.Fatalf("Status = %s, expected Degraded", result.Status)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("Expected 2 warnings (committee floor and zero subcommittees), got %v", result.Warnings)
	}
	if len(result.Committees) != 5 {
		t.Errorf("Degraded result should still carry partial data, got %d committees", len(result.Committees))
	}
}

func TestParseLines_ConfigurableThresholds(t *testing.T) {
	pages := [][]string{{
		"AGRICULTURE",
		"1. Glenn Thompson, PA",
	}}
	engine := NewEngine(Options{MinCommittees: 1, RequireSubcommittees: false})
	result := engine.ParseLines(pages, fixtureSource())
	if result.Status != StatusSuccess {
		t.Errorf("Status = %s, expected Success with relaxed thresholds", result.Status)
	}
}

func TestParseLines_TruncationCorrection(t *testing.T) {
	result := parseFixture(t)

	var oversight []Committee
	for _, c := range result.Committees {
		if c.CommitteeKey == "oversight-and-government-reform" || c.CommitteeKey == "oversight-and" {
			oversight = append(oversight, c)
		}
	}
	if len(oversight) != 1 {
		t.Fatalf("Expected exactly 1 oversight committee, got %d: %+v", len(oversight), oversight)
	}
	if oversight[0].CommitteeKey != "oversight-and-government-reform" {
		t.Errorf("Truncated header produced key %s", oversight[0].CommitteeKey)
	}
}

func TestParseLines_MemberLineWithoutContextDropped(t *testing.T) {
	pages := [][]string{{
		"1. Pete Sessions, TX",
	}}
	engine := NewEngine(DefaultOptions())
	result := engine.ParseLines(pages, fixtureSource())
	if len(result.Assignments) != 0 || len(result.Members) != 0 {
		t.Errorf("Member line without committee context should be dropped, got %d assignments, %d members",
			len(result.Assignments), len(result.Members))
	}
}

func TestParseLines_RatioAttachedToCommittee(t *testing.T) {
	result := parseFixture(t)
	for _, c := range result.Committees {
		if c.CommitteeKey == "financial-services" {
			if c.Ratio != "26-22" {
				t.Errorf("Financial Services ratio = %q, expected 26-22", c.Ratio)
			}
			return
		}
	}
	t.Fatal("Financial Services committee not found")
}

func TestParseLines_ProvenanceFields(t *testing.T) {
	result := parseFixture(t)
	src := fixtureSource()
	for _, c := range result.Committees {
		if c.SourceDate != src.Date || c.SourceURL != src.URL || c.ContentHash != src.ContentHash {
			t.Errorf("Committee %s provenance incomplete: %+v", c.CommitteeKey, c.Provenance)
		}
		if c.Page == 0 {
			t.Errorf("Committee %s missing page provenance", c.CommitteeKey)
		}
	}
	for _, a := range result.Assignments {
		if a.SourceDate != src.Date {
			t.Errorf("Assignment %s missing source date", a.AssignmentKey)
		}
		if a.RawLine == "" {
			t.Errorf("Assignment %s missing raw line provenance", a.AssignmentKey)
		}
	}
}
