// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package preprocess rewrites Markdown before it is handed to the render
// engine: title extraction, citation rewriting, and output filename
// sanitizing. Everything here is pure and operates on in-memory text.
package preprocess

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/md-convert/pkg/types"
)

// headingPattern matches a level-1 ATX heading: a single '#' followed by
// horizontal whitespace and at least one visible character.
var headingPattern = regexp.MustCompile(`(?m)^#[ \t]+(.*\S)`)

// ExtractTitle derives a document title from raw Markdown. The first
// level-1 heading wins; otherwise the first sentence of the first non-blank
// line is used; a document with no usable line gets PlaceholderTitle.
func ExtractTitle(text string) types.Title {
	if m := headingPattern.FindStringSubmatch(text); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			return types.Title{Text: title, Source: types.TitleFromHeading}
		}
	}

	if line := firstNonBlankLine(text); line != "" {
		if title := firstSentence(trimMarkers(line)); title != "" {
			return types.Title{Text: title, Source: types.TitleFromFirstLine}
		}
	}

	return types.Title{Text: types.PlaceholderTitle, Source: types.TitleFromPlaceholder}
}

func firstNonBlankLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// trimMarkers strips emphasis and heading markers from both ends of line.
func trimMarkers(line string) string {
	return strings.TrimFunc(line, func(r rune) bool {
		return r == '*' || r == '_' || r == '#' || unicode.IsSpace(r)
	})
}

// firstSentence returns line up to and including the first sentence
// terminator. A line without a terminator, or one that starts with it, is
// returned whole.
func firstSentence(line string) string {
	if idx := strings.IndexAny(line, ".!?"); idx > 0 {
		line = line[:idx+1]
	}
	return strings.TrimSpace(line)
}
