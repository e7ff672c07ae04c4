// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns a Markdown file into a DOCX or EPUB document: it
// derives the title, rewrites citation spans for the target format, and
// hands the result to a render engine. Output files appear atomically.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/frontmatter"

	"github.com/pdiddy/md-convert/internal/logger"
	"github.com/pdiddy/md-convert/internal/preprocess"
	"github.com/pdiddy/md-convert/internal/render"
	"github.com/pdiddy/md-convert/pkg/types"
)

// Renderer is the render collaborator contract. render.Engine satisfies it.
type Renderer interface {
	Name() string
	Render(text, to, from, outputPath string, args []string) error
}

// Recorder stores the outcome of each conversion. history.Store satisfies
// it.
type Recorder interface {
	Record(ctx context.Context, rec types.RunRecord) (types.RunRecord, error)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Dispatcher runs conversions with a fixed configuration and engine. It
// writes per-file status lines to its writer.
type Dispatcher struct {
	cfg      types.ConverterConfig
	renderer Renderer
	recorder Recorder
	w        io.Writer
}

// NewDispatcher creates a Dispatcher. recorder may be nil to disable run
// history.
func NewDispatcher(cfg types.ConverterConfig, r Renderer, recorder Recorder, w io.Writer) *Dispatcher {
	return &Dispatcher{cfg: cfg, renderer: r, recorder: recorder, w: w}
}

// Dispatch renders one request into the output directory. The citation
// mode is resolved from the request when unset, and the title is extracted
// from the source text when empty. The document is rendered to a temporary
// file that is renamed into place only on success.
func (d *Dispatcher) Dispatch(req types.ConversionRequest) (types.ConversionResult, error) {
	if !req.Format.Valid() {
		return types.ConversionResult{}, fmt.Errorf("unsupported output format %q: want docx or epub", req.Format)
	}

	mode := req.CitationMode
	if mode == "" {
		mode = preprocess.ResolveMode(req.Format, req.RemoveCitations)
	}

	title := req.Title
	if title.Text == "" {
		title = preprocess.ExtractTitle(req.SourceText)
	}

	result := types.ConversionResult{
		Title:     title,
		Mode:      mode,
		Citations: len(preprocess.FindCitations(req.SourceText)),
	}

	var text string
	if mode == types.CitationFootnote {
		text, result.Footnotes = preprocess.TransformFootnotes(req.SourceText, 0)
	} else {
		text = preprocess.Transform(req.SourceText, req.Format, mode)
	}
	logger.Debug("rewrote %d citation(s) in %s mode", result.Citations, mode)

	name := preprocess.SanitizeFilename(title.Text, d.cfg.MaxFilenameLength)
	if name == "" {
		name = preprocess.SanitizeFilename(types.PlaceholderTitle, d.cfg.MaxFilenameLength)
	}

	outDir, err := filepath.Abs(d.cfg.OutputDir)
	if err != nil {
		return result, fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return result, fmt.Errorf("creating output directory: %w", err)
	}
	outPath := filepath.Join(outDir, name+req.Format.Extension())

	opts, err := RenderOptions(d.cfg, req.Format, title.Text)
	if err != nil {
		return result, &RenderError{Engine: d.renderer.Name(), Err: err}
	}

	tmp, err := os.CreateTemp(outDir, "."+name+"-*"+req.Format.Extension())
	if err != nil {
		return result, fmt.Errorf("creating temporary output: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		logger.Warn("closing %s: %v", tmpPath, err)
	}

	if err := d.renderer.Render(text, string(req.Format), render.SourceFormat, tmpPath, opts); err != nil {
		removeTemp(tmpPath)
		return result, &RenderError{Engine: d.renderer.Name(), Err: err}
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		removeTemp(tmpPath)
		return result, fmt.Errorf("moving output into place: %w", err)
	}

	result.OutputPath = outPath
	return result, nil
}

// removeTemp deletes a partial render. A file that cannot be removed is
// reported so it can be cleaned up by hand.
func removeTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("could not remove temporary output %s: %v", path, err)
	}
}

// ConvertFile reads the Markdown file at path and dispatches it. A missing
// file yields an error wrapping ErrInputNotFound; engine failures yield a
// *RenderError. Each outcome is reported to the writer and, when a
// recorder is configured, stored in the run history.
func (d *Dispatcher) ConvertFile(path string, format types.OutputFormat, remove bool) (types.ConversionResult, error) {
	base := filepath.Base(path)
	fmt.Fprintf(d.w, "\nProcessing '%s'...\n", base)

	req := types.ConversionRequest{
		SourcePath:      path,
		Format:          format,
		RemoveCitations: remove,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrInputNotFound, path)
		} else {
			err = fmt.Errorf("reading %s: %w", path, err)
		}
		fmt.Fprintf(d.w, "failed:  %s (%v)\n", base, err)
		d.record(req, types.ConversionResult{}, err)
		return types.ConversionResult{}, err
	}

	req.SourceText = string(data)
	req.Title = documentTitle(data)
	logger.Info("title %q (from %s)", req.Title.Text, req.Title.Source)

	fmt.Fprintf(d.w, "Converting to %s...\n", format)
	result, err := d.Dispatch(req)
	d.record(req, result, err)
	if err != nil {
		fmt.Fprintf(d.w, "failed:  %s (%v)\n", base, err)
		return result, err
	}

	fmt.Fprintf(d.w, "converted: %s -> %s\n", base, result.OutputPath)
	return result, nil
}

// ConvertBatch converts each path in order, printing per-file status and a
// summary line.
func (d *Dispatcher) ConvertBatch(paths []string, format types.OutputFormat, remove bool) BatchResult {
	var result BatchResult
	for _, p := range paths {
		if _, err := d.ConvertFile(p, format, remove); err != nil {
			result.Failed++
			continue
		}
		result.Converted++
	}
	fmt.Fprintf(d.w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result
}

// documentTitle prefers a frontmatter title and otherwise extracts one from
// the body. Malformed frontmatter falls back to the whole text.
func documentTitle(data []byte) types.Title {
	var meta struct {
		Title string `yaml:"title" toml:"title" json:"title"`
	}
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		logger.Warn("ignoring malformed frontmatter: %v", err)
		return preprocess.ExtractTitle(string(data))
	}
	if meta.Title != "" {
		return types.Title{Text: meta.Title, Source: types.TitleFromFrontmatter}
	}
	return preprocess.ExtractTitle(string(body))
}

func (d *Dispatcher) record(req types.ConversionRequest, res types.ConversionResult, convErr error) {
	if d.recorder == nil {
		return
	}

	rec := types.RunRecord{
		SourcePath: req.SourcePath,
		Title:      res.Title.Text,
		Format:     req.Format,
		Mode:       res.Mode,
		OutputPath: res.OutputPath,
		Citations:  res.Citations,
		Status:     types.RunConverted,
	}
	if convErr != nil {
		rec.Status = types.RunFailed
		rec.Error = convErr.Error()
	}
	if _, err := d.recorder.Record(context.Background(), rec); err != nil {
		logger.Warn("could not record history: %v", err)
	}
}
