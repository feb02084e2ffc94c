// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package roster

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The cover date appears on page one surrounded by arbitrary noise, sometimes
// with a leaked URL fragment glued to the month name, so the match is
// case-insensitive and anchored nowhere.
var coverDateRe = regexp.MustCompile(`(?i)([A-Za-z]+)\s+(\d{1,2}),\s*(\d{4})`)

// ExtractCoverDate scans page-one text for a "<MonthName> <Day>, <Year>"
// pattern and returns it as an ISO YYYY-MM-DD string. Callers must treat a
// missing cover date as a hard stop: every entity's storage key depends on it.
func ExtractCoverDate(pageText string) (string, bool) {
	for _, m := range coverDateRe.FindAllStringSubmatch(pageText, -1) {
		// The month token may carry prefix garbage ("httpJune"); strip down
		// to a known month name before giving up on it.
		month, ok := matchMonth(m[1])
		if !ok {
			continue
		}
		day, err := strconv.Atoi(m[2])
		if err != nil || day < 1 || day > 31 {
			continue
		}
		year, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
	}
	return "", false
}

func matchMonth(token string) (int, bool) {
	lower := strings.ToLower(token)
	if n, ok := monthNumbers[lower]; ok {
		return n, true
	}
	for name, n := range monthNumbers {
		if strings.HasSuffix(lower, name) {
			return n, true
		}
	}
	return 0, false
}
