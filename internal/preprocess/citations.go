// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preprocess

import (
	"regexp"
	"strings"

	"github.com/pdiddy/md-convert/pkg/types"
)

// citationPattern matches a citation span: optional leading whitespace
// (including Unicode spaces), then `([text](url))`. Link text may be empty;
// the URL needs one character.
var citationPattern = regexp.MustCompile(`[\s\v\x{85}\p{Z}]*\(\[([^\]]*)\]\(([^)]+)\)\)`)

// textFragmentMarker starts the scroll-to-text suffix browsers append to
// copied "highlight" links.
const textFragmentMarker = "#:~:text="

// ResolveMode picks the citation mode for a conversion. An explicit remove
// request wins; otherwise DOCX gets footnotes and EPUB gets inline links.
func ResolveMode(format types.OutputFormat, remove bool) types.CitationMode {
	if remove {
		return types.CitationRemove
	}
	if format == types.FormatDOCX {
		return types.CitationFootnote
	}
	return types.CitationInlineLink
}

// FindCitations returns every citation span in text, left to right and
// non-overlapping.
func FindCitations(text string) []types.Citation {
	matches := citationPattern.FindAllStringSubmatchIndex(text, -1)
	citations := make([]types.Citation, 0, len(matches))
	for _, m := range matches {
		citations = append(citations, types.Citation{
			LinkText: text[m[2]:m[3]],
			URL:      text[m[4]:m[5]],
			Start:    m[0],
			End:      m[1],
		})
	}
	return citations
}

// CleanURL strips a trailing text-fragment suffix ("#:~:text=...") from
// url. No other normalization is applied.
func CleanURL(url string) string {
	if idx := strings.Index(url, textFragmentMarker); idx >= 0 {
		return url[:idx]
	}
	return url
}

// Transform rewrites every citation span in text according to mode. An
// empty mode is resolved from format with ResolveMode. Text without
// citation spans is returned unchanged.
func Transform(text string, format types.OutputFormat, mode types.CitationMode) string {
	if mode == "" {
		mode = ResolveMode(format, false)
	}
	switch mode {
	case types.CitationRemove:
		return RemoveCitations(text)
	case types.CitationFootnote:
		out, _ := TransformFootnotes(text, 0)
		return out
	case types.CitationInlineLink:
		return InlineLinks(text)
	default:
		return text
	}
}

// RemoveCitations deletes every citation span, rescanning until no span
// remains. Each pass that changes the text shortens it, so the loop ends.
func RemoveCitations(text string) string {
	for {
		next := citationPattern.ReplaceAllString(text, "")
		if next == text {
			return text
		}
		text = next
	}
}

// TransformFootnotes replaces each citation with a footnote marker followed
// by its definition block. assigned is the number of ordinals already
// handed out in this run (0 for a fresh run); the returned int is the last
// ordinal assigned, so calls can be chained without gaps.
func TransformFootnotes(text string, assigned int) (string, int) {
	return rewrite(text, assigned, func(c types.Citation, ordinal int) string {
		fn := types.Footnote{Ordinal: ordinal, LinkText: c.LinkText, URL: CleanURL(c.URL)}
		return fn.Marker() + "\n\n" + fn.Marker() + ": " + fn.Definition() + "\n\n"
	})
}

// InlineLinks unwraps each citation into a standard Markdown link preceded
// by a single space. The URL is kept as written.
func InlineLinks(text string) string {
	out, _ := rewrite(text, 0, func(c types.Citation, _ int) string {
		return " [" + c.LinkText + "](" + c.URL + ")"
	})
	return out
}

// rewrite performs a single left-to-right pass, replacing each citation
// with fn's result. The ordinal passed to fn starts at assigned+1 and grows
// by one per citation; the last ordinal used is returned.
func rewrite(text string, assigned int, fn func(c types.Citation, ordinal int) string) (string, int) {
	citations := FindCitations(text)
	if len(citations) == 0 {
		return text, assigned
	}

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, c := range citations {
		assigned++
		b.WriteString(text[prev:c.Start])
		b.WriteString(fn(c, assigned))
		prev = c.End
	}
	b.WriteString(text[prev:])
	return b.String(), assigned
}
