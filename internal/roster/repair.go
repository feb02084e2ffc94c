// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package roster

import "regexp"

// PDF text extraction frequently loses word boundaries in this document:
// "PeteSessions,TX" instead of "Pete Sessions, TX". The three rewrites below
// are independent and order-insensitive, and run on every non-blank line
// before any parsing. The lower-to-upper split is imperfect for legitimate
// camel-case tokens, which this roster does not contain.
var (
	lowerUpperBoundary = regexp.MustCompile(`([a-z])([A-Z])`)
	commaNoSpace       = regexp.MustCompile(`,([A-Z])`)
	listMarkerNoSpace  = regexp.MustCompile(`(\d+\.)([A-Z])`)
)

// RepairLine fixes word-boundary loss introduced by text extraction.
func RepairLine(line string) string {
	line = lowerUpperBoundary.ReplaceAllString(line, "$1 $2")
	line = commaNoSpace.ReplaceAllString(line, ", $1")
	line = listMarkerNoSpace.ReplaceAllString(line, "$1 $2")
	return line
}
