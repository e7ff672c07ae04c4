// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// PlaceholderTitle is used when a document yields no usable title.
const PlaceholderTitle = "Untitled Document"

// TitleSource records which rule produced a Title.
type TitleSource string

const (
	TitleFromFrontmatter TitleSource = "frontmatter"
	TitleFromHeading     TitleSource = "heading"
	TitleFromFirstLine   TitleSource = "first-line"
	TitleFromPlaceholder TitleSource = "placeholder"
)

// Title is the document title derived from its Markdown source.
type Title struct {
	Text   string      `json:"text" yaml:"text"`
	Source TitleSource `json:"source" yaml:"source"`
}

// Citation is a `([text](url))` span found in a document. Start and End
// are byte offsets into the source text, End exclusive, and include any
// leading whitespace consumed by the match.
type Citation struct {
	LinkText string `json:"link_text" yaml:"link_text"`
	URL      string `json:"url" yaml:"url"`
	Start    int    `json:"start" yaml:"start"`
	End      int    `json:"end" yaml:"end"`
}

// Footnote is generated from a Citation in footnote mode. URL holds the
// cleaned URL with any text-fragment suffix removed.
type Footnote struct {
	Ordinal  int    `json:"ordinal" yaml:"ordinal"`
	LinkText string `json:"link_text" yaml:"link_text"`
	URL      string `json:"url" yaml:"url"`
}

// Marker returns the footnote reference marker, e.g. "[^3]".
func (f Footnote) Marker() string {
	return fmt.Sprintf("[^%d]", f.Ordinal)
}

// Definition returns the footnote body: link text and URL, or the URL
// alone when the link text is empty.
func (f Footnote) Definition() string {
	if f.LinkText == "" {
		return f.URL
	}
	return f.LinkText + ". " + f.URL
}

// ConversionRequest describes one document conversion. When CitationMode is
// empty it is resolved from Format and RemoveCitations.
type ConversionRequest struct {
	SourcePath      string
	SourceText      string
	Title           Title
	Format          OutputFormat
	CitationMode    CitationMode
	RemoveCitations bool
}

// ConversionResult reports what a successful conversion produced.
type ConversionResult struct {
	Title      Title        `json:"title" yaml:"title"`
	OutputPath string       `json:"output_path" yaml:"output_path"`
	Mode       CitationMode `json:"mode" yaml:"mode"`
	Citations  int          `json:"citations" yaml:"citations"`
	Footnotes  int          `json:"footnotes" yaml:"footnotes"`
}
