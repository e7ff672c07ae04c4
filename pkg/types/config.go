// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Default values for ConverterConfig.
const (
	DefaultInputDir          = "input"
	DefaultOutputDir         = "output"
	DefaultMaxFilenameLength = 60
	DefaultLanguage          = "en-US"
	DefaultTOCDepth          = 2
	DefaultSplitLevel        = 2
	DefaultMetadataFile      = "metadata.yaml"
	DefaultCoverImage        = "cover.jpg"
	DefaultEngine            = "auto"
	DefaultContainerImage    = "pandoc/core:latest"
	DefaultHistoryDB         = "output/.md-convert.db"
)

// OutputFormat selects the document format produced by the render engine.
type OutputFormat string

const (
	FormatDOCX OutputFormat = "docx"
	FormatEPUB OutputFormat = "epub"
)

// Valid reports whether f is a supported output format.
func (f OutputFormat) Valid() bool {
	return f == FormatDOCX || f == FormatEPUB
}

// Extension returns the file extension (with leading dot) for f.
func (f OutputFormat) Extension() string {
	return "." + string(f)
}

// CitationMode selects how citation spans are rewritten before rendering.
type CitationMode string

const (
	CitationRemove     CitationMode = "remove"
	CitationFootnote   CitationMode = "footnote"
	CitationInlineLink CitationMode = "inline-link"
)

// ConverterConfig holds every setting the conversion components read. It is
// resolved once per command and passed explicitly; components keep no
// package-level configuration.
type ConverterConfig struct {
	// InputDir holds the candidate Markdown files (default "input").
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives rendered documents (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format is the default output format: docx or epub (default epub).
	Format OutputFormat `json:"format" yaml:"format"`

	// RemoveCitations forces remove mode regardless of Format.
	RemoveCitations bool `json:"remove_citations" yaml:"remove_citations"`

	// MaxFilenameLength bounds the sanitized output base name (default 60).
	MaxFilenameLength int `json:"max_filename_length" yaml:"max_filename_length"`

	// Language is written to EPUB metadata (default "en-US").
	Language string `json:"language" yaml:"language"`

	// TOCDepth is the EPUB table of contents depth (default 2).
	TOCDepth int `json:"toc_depth" yaml:"toc_depth"`

	// SplitLevel is the heading level at which EPUB chapters split (default 2).
	SplitLevel int `json:"split_level" yaml:"split_level"`

	// MetadataFile is an optional YAML sidecar attached to EPUB output when
	// it exists in WorkDir (default "metadata.yaml").
	MetadataFile string `json:"metadata_file" yaml:"metadata_file"`

	// CoverImage is an optional EPUB cover attached when it exists in
	// WorkDir (default "cover.jpg").
	CoverImage string `json:"cover_image" yaml:"cover_image"`

	// ReferenceDoc is an optional DOCX style reference.
	ReferenceDoc string `json:"reference_doc,omitempty" yaml:"reference_doc,omitempty"`

	// WorkDir is the directory sidecar files are resolved against and the
	// directory mounted into container engines (default ".").
	WorkDir string `json:"work_dir" yaml:"work_dir"`

	// Engine selects the render engine: auto, pandoc, docker, or podman.
	Engine string `json:"engine" yaml:"engine"`

	// ContainerImage is the pandoc image used by container engines.
	ContainerImage string `json:"container_image" yaml:"container_image"`

	// HistoryDB is the SQLite ledger path. Empty disables run history.
	HistoryDB string `json:"history_db" yaml:"history_db"`
}

// DefaultConfig returns a ConverterConfig populated with defaults.
func DefaultConfig() ConverterConfig {
	return ConverterConfig{
		InputDir:          DefaultInputDir,
		OutputDir:         DefaultOutputDir,
		Format:            FormatEPUB,
		MaxFilenameLength: DefaultMaxFilenameLength,
		Language:          DefaultLanguage,
		TOCDepth:          DefaultTOCDepth,
		SplitLevel:        DefaultSplitLevel,
		MetadataFile:      DefaultMetadataFile,
		CoverImage:        DefaultCoverImage,
		WorkDir:           ".",
		Engine:            DefaultEngine,
		ContainerImage:    DefaultContainerImage,
		HistoryDB:         DefaultHistoryDB,
	}
}
