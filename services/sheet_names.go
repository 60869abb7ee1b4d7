package services

import (
	"fmt"
	"strings"
)

// MaxSheetNameLength is the longest sheet name Excel accepts, in characters.
const MaxSheetNameLength = 31

// Fixed sheet names, reserved before any room sheet is named.
const (
	SheetCover   = "Cover Page"
	SheetSummary = "Proposal Summary"
	SheetTerms   = "Commercial Terms"
)

const defaultRoomSheetName = "Room"

// SheetNamer hands out unique worksheet names for one workbook. Excel compares
// sheet names case-insensitively, so uniqueness is tracked on folded names.
type SheetNamer struct {
	used map[string]bool
}

// NewSheetNamer returns a namer with reserved names already taken.
func NewSheetNamer(reserved ...string) *SheetNamer {
	n := &SheetNamer{used: make(map[string]bool)}
	for _, name := range reserved {
		n.used[strings.ToLower(name)] = true
	}
	return n
}

// Unique sanitizes base and returns a name not yet handed out, appending
// " (2)", " (3)", ... on collision while keeping within MaxSheetNameLength.
func (n *SheetNamer) Unique(base string) string {
	clean := SanitizeSheetName(base)

	name := strings.TrimRight(truncateRunes(clean, MaxSheetNameLength), "' ")
	if n.claim(name) {
		return name
	}

	for i := 2; ; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		stem := truncateRunes(clean, MaxSheetNameLength-len(suffix))
		name = strings.TrimRight(stem, "' ") + suffix
		if n.claim(name) {
			return name
		}
	}
}

func (n *SheetNamer) claim(name string) bool {
	key := strings.ToLower(name)
	if n.used[key] {
		return false
	}
	n.used[key] = true
	return true
}

// SanitizeSheetName removes characters Excel forbids in sheet names
// (\ / ? * [ ] :) and leading or trailing apostrophes. An empty result
// becomes "Room".
func SanitizeSheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', '?', '*', '[', ']', ':':
			return -1
		}
		return r
	}, s)
	s = strings.Trim(s, "' ")
	if s == "" {
		return defaultRoomSheetName
	}
	return s
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
