// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package roster

import (
	"strings"
	"unicode"
)

// NormalizeKey lowercases a display name, drops periods and apostrophes, and
// collapses every other separator run into a single hyphen. The result is a
// stable, human-readable identifier usable as a storage primary key.
func NormalizeKey(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r == '.' || r == '\'' || r == '’':
			// dropped entirely: "Veterans' Affairs" -> veterans-affairs
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// CommitteeKeyFor derives the globally unique committee key.
func CommitteeKeyFor(displayName string) string {
	return NormalizeKey(displayName)
}

// SubcommitteeKeyFor derives the compound subcommittee key. The parent key
// prefix keeps similarly named subcommittees of different committees apart.
func SubcommitteeKeyFor(parentKey, displayName string) string {
	return parentKey + "::" + NormalizeKey(displayName)
}

// MemberKeyFor derives the member key from the display name plus state and
// district when present.
func MemberKeyFor(displayName, state, district string) string {
	key := NormalizeKey(displayName)
	if state != "" {
		key += "-" + strings.ToLower(strings.TrimSpace(state))
	}
	if district != "" {
		key += district
	}
	return key
}

// AssignmentKeyFor includes the source date so every document edition
// snapshots separately instead of overwriting the previous run.
func AssignmentKeyFor(memberKey, targetKey, sourceDate string) string {
	return memberKey + "::" + targetKey + "::" + sourceDate
}
