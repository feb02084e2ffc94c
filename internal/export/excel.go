// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package export writes parse results to spreadsheet workbooks for staff
// who track assignments outside the database.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/roster-watch/internal/roster"
)

// Excel sheet names are capped at 31 characters and reject some symbols.
const maxSheetName = 31

var assignmentHeader = []string{"Member", "State", "District", "Subcommittee", "Role", "Group", "Position"}

// WriteWorkbook writes one workbook: an overview sheet listing every
// committee, then one sheet per committee with its assignments.
func WriteWorkbook(path string, result *roster.ParseResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeOverview(f, result); err != nil {
		return err
	}

	members := make(map[string]roster.Member, len(result.Members))
	for _, m := range result.Members {
		members[m.MemberKey] = m
	}
	subNames := make(map[string]string, len(result.Subcommittees))
	for _, sc := range result.Subcommittees {
		subNames[sc.SubcommitteeKey] = sc.DisplayName
	}

	byCommittee := make(map[string][]roster.Assignment)
	for _, a := range result.Assignments {
		byCommittee[a.CommitteeKey] = append(byCommittee[a.CommitteeKey], a)
	}

	used := map[string]bool{"Overview": true}
	for _, c := range result.Committees {
		sheet := sheetNameFor(c.DisplayName, used)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if err := writeCommitteeSheet(f, sheet, byCommittee[c.CommitteeKey], members, subNames); err != nil {
			return err
		}
	}

	// The default sheet excelize creates becomes the overview.
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeOverview(f *excelize.File, result *roster.ParseResult) error {
	const sheet = "Overview"
	defaultName := f.GetSheetName(0)
	if defaultName != sheet {
		if err := f.SetSheetName(defaultName, sheet); err != nil {
			return fmt.Errorf("failed to rename overview sheet: %w", err)
		}
	}

	rows := [][]interface{}{
		{"Committee", "Type", "Ratio", "Source Date", "Status"},
	}
	for _, c := range result.Committees {
		rows = append(rows, []interface{}{c.DisplayName, c.Type, c.Ratio, c.SourceDate, string(result.Status)})
	}
	return writeRows(f, sheet, rows)
}

func writeCommitteeSheet(f *excelize.File, sheet string, assignments []roster.Assignment, members map[string]roster.Member, subNames map[string]string) error {
	// Full committee first, then subcommittees, each in roster order.
	sort.SliceStable(assignments, func(i, j int) bool {
		a, b := assignments[i], assignments[j]
		if a.SubcommitteeKey != b.SubcommitteeKey {
			return a.SubcommitteeKey < b.SubcommitteeKey
		}
		if a.Group != b.Group {
			return a.Group == roster.GroupMajority
		}
		return a.Position < b.Position
	})

	rows := [][]interface{}{}
	header := make([]interface{}, len(assignmentHeader))
	for i, h := range assignmentHeader {
		header[i] = h
	}
	rows = append(rows, header)

	for _, a := range assignments {
		m := members[a.MemberKey]
		sub := subNames[a.SubcommitteeKey]
		rows = append(rows, []interface{}{
			m.DisplayName, m.State, m.District, sub, a.Role, a.Group, a.Position,
		})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

// sheetNameFor makes a committee name safe and unique as a sheet name.
func sheetNameFor(name string, used map[string]bool) string {
	cleaned := strings.NewReplacer("/", "-", "\\", "-", "?", "", "*", "", "[", "(", "]", ")", ":", "-").Replace(name)
	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) > maxSheetName {
		cleaned = cleaned[:maxSheetName]
	}
	if cleaned == "" {
		cleaned = "Committee"
	}

	candidate := cleaned
	for n := 2; used[candidate]; n++ {
		suffix := fmt.Sprintf(" %d", n)
		base := cleaned
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		candidate = base + suffix
	}
	used[candidate] = true
	return candidate
}
