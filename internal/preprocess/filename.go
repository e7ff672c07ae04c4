// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preprocess

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/md-convert/pkg/types"
)

var (
	// forbiddenChars are invalid on at least one common filesystem.
	forbiddenChars = regexp.MustCompile(`[<>:"/\\|?*']`)
	// separatorRun matches runs of whitespace, Unicode spaces included, and
	// underscores.
	separatorRun = regexp.MustCompile(`[\s\v\x{85}\p{Z}_]+`)
)

// SanitizeFilename maps an arbitrary title to a safe base filename. It never
// fails: forbidden characters become '_', separator runs collapse to a
// single '_', and the result is cut to at most maxLen bytes without
// splitting a UTF-8 sequence. maxLen <= 0 selects the default of 60.
func SanitizeFilename(title string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = types.DefaultMaxFilenameLength
	}

	name := strings.TrimSpace(title)
	name = forbiddenChars.ReplaceAllString(name, "_")
	name = separatorRun.ReplaceAllString(name, "_")
	return truncate(name, maxLen)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
