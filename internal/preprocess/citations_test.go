// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preprocess

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/md-convert/pkg/types"
)

var allModes = []types.CitationMode{
	types.CitationRemove,
	types.CitationFootnote,
	types.CitationInlineLink,
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		format types.OutputFormat
		remove bool
		want   types.CitationMode
	}{
		{types.FormatDOCX, false, types.CitationFootnote},
		{types.FormatEPUB, false, types.CitationInlineLink},
		{types.FormatDOCX, true, types.CitationRemove},
		{types.FormatEPUB, true, types.CitationRemove},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/remove=%v", tt.format, tt.remove), func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMode(tt.format, tt.remove))
		})
	}
}

func TestFindCitations(t *testing.T) {
	text := "Claim one ([Source A](https://a.example)) and two ([](https://b.example))."
	got := FindCitations(text)
	require.Len(t, got, 2)

	assert.Equal(t, "Source A", got[0].LinkText)
	assert.Equal(t, "https://a.example", got[0].URL)
	assert.Equal(t, " ([Source A](https://a.example))", text[got[0].Start:got[0].End])

	assert.Equal(t, "", got[1].LinkText, "empty link text is still a citation")
	assert.Equal(t, "https://b.example", got[1].URL)
}

func TestFindCitations_RequiresURL(t *testing.T) {
	assert.Empty(t, FindCitations("nothing ([text]()) here"))
	assert.Empty(t, FindCitations("a plain [link](https://x.example) stays"))
}

func TestTransform_NoCitationsIsNoop(t *testing.T) {
	texts := []string{
		"",
		"# Title\n\nPlain paragraph with a [normal link](https://x.example).",
		"Parenthetical (not a citation) and [brackets] alone.\n",
	}
	for _, text := range texts {
		for _, format := range []types.OutputFormat{types.FormatDOCX, types.FormatEPUB} {
			for _, mode := range allModes {
				assert.Equal(t, text, Transform(text, format, mode), "format=%s mode=%s", format, mode)
			}
		}
	}
}

func TestTransform_Remove(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "single citation with leading space",
			text: "A claim ([Src](https://x.example)).",
			want: "A claim.",
		},
		{
			name: "adjacent citations",
			text: "A claim ([One](https://1.example)) ([Two](https://2.example))\nNext line",
			want: "A claim\nNext line",
		},
		{
			name: "nested decoration needs a second pass",
			text: "See(([c](https://c.example))[t](https://t.example)) end",
			want: "See end",
		},
		{
			name: "no-break space before citation",
			text: "A claim\u00a0([Src](https://x.example)).",
			want: "A claim.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform(tt.text, types.FormatEPUB, types.CitationRemove)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Transform(got, types.FormatEPUB, types.CitationRemove), "remove must be idempotent")
			assert.Empty(t, FindCitations(got))
		})
	}
}

func TestTransform_FootnoteStripsTextFragment(t *testing.T) {
	got := Transform(" ([Cited](http://x.com#:~:text=foo))", types.FormatDOCX, types.CitationFootnote)

	assert.True(t, strings.HasPrefix(got, "[^1]"), "marker first: %q", got)
	assert.Contains(t, got, "\n[^1]: Cited. http://x.com\n")
	assert.NotContains(t, got, "#:~:text")
}

func TestTransform_FootnoteKeepsOtherFragments(t *testing.T) {
	got := Transform("x ([Doc](https://d.example/page#section))", types.FormatDOCX, types.CitationFootnote)
	assert.Contains(t, got, "[^1]: Doc. https://d.example/page#section")
}

func TestTransform_FootnoteEmptyLinkText(t *testing.T) {
	got := Transform("x ([](https://d.example))", types.FormatDOCX, types.CitationFootnote)
	assert.Contains(t, got, "[^1]: https://d.example\n")
}

func TestTransformFootnotes_OrdinalsContiguous(t *testing.T) {
	for _, k := range []int{1, 2, 5, 12} {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			var b strings.Builder
			for i := 1; i <= k; i++ {
				fmt.Fprintf(&b, "Sentence %d ([Ref %d](https://r%d.example)).\n", i, i, i)
			}

			out, last := TransformFootnotes(b.String(), 0)
			assert.Equal(t, k, last)

			prev := -1
			for i := 1; i <= k; i++ {
				marker := fmt.Sprintf("[^%d]", i)
				refs := strings.Count(out, marker) - strings.Count(out, marker+":")
				assert.Equal(t, 1, refs, "reference %s must appear exactly once", marker)

				idx := strings.Index(out, marker)
				assert.Greater(t, idx, prev, "%s out of order", marker)
				prev = idx
			}
			assert.NotContains(t, out, fmt.Sprintf("[^%d]", k+1))
		})
	}
}

func TestTransformFootnotes_Chained(t *testing.T) {
	first, n := TransformFootnotes("a ([A](https://a.example))", 0)
	second, n := TransformFootnotes("b ([B](https://b.example))", n)

	assert.Equal(t, 2, n)
	assert.Contains(t, first, "[^1]: A. https://a.example")
	assert.Contains(t, second, "[^2]: B. https://b.example")
}

func TestTransform_InlineLink(t *testing.T) {
	got := Transform(" ([Cited](http://x.com))", types.FormatEPUB, types.CitationInlineLink)
	assert.Equal(t, " [Cited](http://x.com)", got)
}

func TestTransform_InlineLinkKeepsURL(t *testing.T) {
	got := Transform("Claim\t([A](https://a.example#:~:text=kept)) done.", types.FormatEPUB, types.CitationInlineLink)
	assert.Equal(t, "Claim [A](https://a.example#:~:text=kept) done.", got)
}

func TestTransform_EmptyModeResolvesFromFormat(t *testing.T) {
	text := " ([Cited](http://x.com))"
	assert.Equal(t, " [Cited](http://x.com)", Transform(text, types.FormatEPUB, ""))
	assert.Contains(t, Transform(text, types.FormatDOCX, ""), "[^1]")
}

func TestCleanURL(t *testing.T) {
	assert.Equal(t, "http://x.com", CleanURL("http://x.com#:~:text=foo%20bar"))
	assert.Equal(t, "http://x.com#frag", CleanURL("http://x.com#frag"))
	assert.Equal(t, "http://x.com", CleanURL("http://x.com"))
}

func TestRemoveCitations_DeepNesting(t *testing.T) {
	for _, depth := range []int{1, 16, 17, 40} {
		t.Run(fmt.Sprintf("depth %d", depth), func(t *testing.T) {
			s := "([c](https://c.example))"
			for n := 0; n < depth; n++ {
				s = "(" + s + "[t](https://t.example))"
			}
			text := "See" + s + " end"

			got := RemoveCitations(text)
			assert.Equal(t, "See end", got)
			assert.Equal(t, got, RemoveCitations(got))
		})
	}
}

func TestTransform_UnicodeSpaceBeforeCitation(t *testing.T) {
	got := Transform("A claim\u2003([Src](https://s.example)).", types.FormatEPUB, types.CitationInlineLink)
	assert.Equal(t, "A claim [Src](https://s.example).", got)
}
