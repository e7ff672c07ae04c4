// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/md-convert/internal/logger"
	"github.com/pdiddy/md-convert/pkg/types"
)

// fakeRenderer implements Renderer for testing. It records the last call
// and writes canned bytes to the output path, or fails.
type fakeRenderer struct {
	err error

	calls      int
	text       string
	to, from   string
	outputPath string
	args       []string
}

func (f *fakeRenderer) Name() string { return "fake" }

func (f *fakeRenderer) Render(text, to, from, outputPath string, args []string) error {
	f.calls++
	f.text, f.to, f.from, f.outputPath, f.args = text, to, from, outputPath, args
	if f.err != nil {
		// Simulate an engine that leaves a partial file behind.
		os.WriteFile(outputPath, []byte("partial"), 0o644)
		return f.err
	}
	return os.WriteFile(outputPath, []byte("document for "+to), 0o644)
}

// fakeRecorder implements Recorder for testing.
type fakeRecorder struct {
	records []types.RunRecord
}

func (f *fakeRecorder) Record(_ context.Context, rec types.RunRecord) (types.RunRecord, error) {
	f.records = append(f.records, rec)
	return rec, nil
}

func testConfig(t *testing.T) types.ConverterConfig {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.WorkDir = t.TempDir()
	cfg.InputDir = filepath.Join(cfg.WorkDir, "input")
	cfg.OutputDir = filepath.Join(cfg.WorkDir, "output")
	return cfg
}

func writeInput(t *testing.T, cfg types.ConverterConfig, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))
	path := filepath.Join(cfg.InputDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func outputFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestDispatch_ModeResolution(t *testing.T) {
	source := "# Report\n\nA claim ([Src](https://s.example#:~:text=claim)).\n"
	tests := []struct {
		name     string
		format   types.OutputFormat
		remove   bool
		wantMode types.CitationMode
		wantText string
		wantFile string
	}{
		{
			name:     "docx uses footnotes",
			format:   types.FormatDOCX,
			wantMode: types.CitationFootnote,
			wantText: "A claim[^1]\n\n[^1]: Src. https://s.example\n\n.\n",
			wantFile: "Report.docx",
		},
		{
			name:     "epub uses inline links",
			format:   types.FormatEPUB,
			wantMode: types.CitationInlineLink,
			wantText: "A claim [Src](https://s.example#:~:text=claim).\n",
			wantFile: "Report.epub",
		},
		{
			name:     "remove wins for epub",
			format:   types.FormatEPUB,
			remove:   true,
			wantMode: types.CitationRemove,
			wantText: "A claim.\n",
			wantFile: "Report.epub",
		},
		{
			name:     "remove wins for docx",
			format:   types.FormatDOCX,
			remove:   true,
			wantMode: types.CitationRemove,
			wantText: "A claim.\n",
			wantFile: "Report.docx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			r := &fakeRenderer{}
			d := NewDispatcher(cfg, r, nil, &bytes.Buffer{})

			res, err := d.Dispatch(types.ConversionRequest{
				SourceText:      source,
				Format:          tt.format,
				RemoveCitations: tt.remove,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantMode, res.Mode)
			assert.Equal(t, "Report", res.Title.Text)
			assert.Equal(t, 1, res.Citations)
			assert.True(t, strings.HasSuffix(r.text, tt.wantText), "rendered text %q", r.text)
			assert.Equal(t, string(tt.format), r.to)
			assert.Equal(t, "markdown", r.from)

			assert.Equal(t, filepath.Join(cfg.OutputDir, tt.wantFile), res.OutputPath)
			assert.FileExists(t, res.OutputPath)
			assert.Equal(t, []string{tt.wantFile}, outputFiles(t, cfg.OutputDir), "no temp files left")
		})
	}
}

func TestDispatch_FootnoteCount(t *testing.T) {
	cfg := testConfig(t)
	d := NewDispatcher(cfg, &fakeRenderer{}, nil, &bytes.Buffer{})

	res, err := d.Dispatch(types.ConversionRequest{
		SourceText: "One ([a](https://a.example)). Two ([b](https://b.example)). Three ([c](https://c.example)).",
		Format:     types.FormatDOCX,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Citations)
	assert.Equal(t, 3, res.Footnotes)
}

func TestDispatch_ExplicitTitleAndSanitizedName(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxFilenameLength = 10
	d := NewDispatcher(cfg, &fakeRenderer{}, nil, &bytes.Buffer{})

	res, err := d.Dispatch(types.ConversionRequest{
		SourceText: "# Ignored\n",
		Title:      types.Title{Text: `What's "New"? A Long Title`, Source: types.TitleFromFrontmatter},
		Format:     types.FormatDOCX,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "What_s_New.docx"), res.OutputPath)
}

func TestDispatch_OverwritesExistingOutput(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.OutputDir, 0o755))
	existing := filepath.Join(cfg.OutputDir, "Same.epub")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o644))

	d := NewDispatcher(cfg, &fakeRenderer{}, nil, &bytes.Buffer{})
	_, err := d.Dispatch(types.ConversionRequest{SourceText: "# Same", Format: types.FormatEPUB})
	require.NoError(t, err)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "document for epub", string(data))
}

func TestDispatch_RenderFailureLeavesNoFile(t *testing.T) {
	cfg := testConfig(t)
	d := NewDispatcher(cfg, &fakeRenderer{err: errors.New("exit status 64")}, nil, &bytes.Buffer{})

	_, err := d.Dispatch(types.ConversionRequest{SourceText: "# Broken", Format: types.FormatDOCX})
	require.Error(t, err)

	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "fake", rerr.Engine)
	assert.Contains(t, err.Error(), "exit status 64")
	assert.NotErrorIs(t, err, ErrInputNotFound)

	assert.Empty(t, outputFiles(t, cfg.OutputDir))
}

// stuckRenderer replaces the output path with a non-empty directory, so the
// partial output cannot be removed.
type stuckRenderer struct{}

func (stuckRenderer) Name() string { return "stuck" }

func (stuckRenderer) Render(_, _, _, outputPath string, _ []string) error {
	if err := os.Remove(outputPath); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(outputPath, "chunk"), 0o755); err != nil {
		return err
	}
	return errors.New("engine crashed")
}

func TestDispatch_WarnsWhenTempOutputRemains(t *testing.T) {
	var logs bytes.Buffer
	logger.SetOutput(&logs)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	cfg := testConfig(t)
	d := NewDispatcher(cfg, stuckRenderer{}, nil, &bytes.Buffer{})

	_, err := d.Dispatch(types.ConversionRequest{SourceText: "# Stuck", Format: types.FormatDOCX})
	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)

	assert.Contains(t, logs.String(), "[WARN] could not remove temporary output")
	assert.Contains(t, logs.String(), ".Stuck-")
}

func TestRemoveTemp_MissingFileIsQuiet(t *testing.T) {
	var logs bytes.Buffer
	logger.SetOutput(&logs)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	removeTemp(filepath.Join(t.TempDir(), "gone.docx"))
	assert.Empty(t, logs.String())
}

func TestDispatch_InvalidFormat(t *testing.T) {
	r := &fakeRenderer{}
	d := NewDispatcher(testConfig(t), r, nil, &bytes.Buffer{})
	_, err := d.Dispatch(types.ConversionRequest{SourceText: "x", Format: "pdf"})
	assert.Error(t, err)
	assert.Zero(t, r.calls)
}

func TestDispatch_OutputDirIdempotent(t *testing.T) {
	cfg := testConfig(t)
	d := NewDispatcher(cfg, &fakeRenderer{}, nil, &bytes.Buffer{})
	for _, title := range []string{"# First", "# Second"} {
		_, err := d.Dispatch(types.ConversionRequest{SourceText: title, Format: types.FormatEPUB})
		require.NoError(t, err)
	}
	assert.ElementsMatch(t, []string{"First.epub", "Second.epub"}, outputFiles(t, cfg.OutputDir))
}

func TestConvertFile(t *testing.T) {
	cfg := testConfig(t)
	path := writeInput(t, cfg, "notes.md", "Meeting notes. Action items follow.\n\nDetails ([Doc](https://d.example)).\n")

	var log bytes.Buffer
	rec := &fakeRecorder{}
	d := NewDispatcher(cfg, &fakeRenderer{}, rec, &log)

	res, err := d.ConvertFile(path, types.FormatDOCX, false)
	require.NoError(t, err)

	assert.Equal(t, "Meeting notes.", res.Title.Text)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "Meeting_notes..docx"), res.OutputPath)
	assert.Contains(t, log.String(), "Processing 'notes.md'...")
	assert.Contains(t, log.String(), "converted: notes.md ->")

	require.Len(t, rec.records, 1)
	assert.Equal(t, types.RunConverted, rec.records[0].Status)
	assert.Equal(t, path, rec.records[0].SourcePath)
	assert.Equal(t, types.CitationFootnote, rec.records[0].Mode)
	assert.Equal(t, 1, rec.records[0].Citations)
}

func TestConvertFile_FrontmatterTitle(t *testing.T) {
	cfg := testConfig(t)
	path := writeInput(t, cfg, "fm.md", "---\ntitle: From Frontmatter\nauthor: A. Writer\n---\n# Heading Title\n\nBody.\n")

	r := &fakeRenderer{}
	d := NewDispatcher(cfg, r, nil, &bytes.Buffer{})
	res, err := d.ConvertFile(path, types.FormatEPUB, false)
	require.NoError(t, err)

	assert.Equal(t, types.Title{Text: "From Frontmatter", Source: types.TitleFromFrontmatter}, res.Title)
	assert.True(t, strings.HasPrefix(r.text, "---\ntitle: From Frontmatter"), "frontmatter kept for pandoc")
	assert.Contains(t, r.args, "--metadata=title:From Frontmatter")
}

func TestConvertFile_FrontmatterWithoutTitle(t *testing.T) {
	cfg := testConfig(t)
	path := writeInput(t, cfg, "fm.md", "---\nauthor: A. Writer\n---\n\nFirst line wins! Yes.\n")

	d := NewDispatcher(cfg, &fakeRenderer{}, nil, &bytes.Buffer{})
	res, err := d.ConvertFile(path, types.FormatEPUB, false)
	require.NoError(t, err)
	assert.Equal(t, "First line wins!", res.Title.Text)
}

func TestConvertFile_MissingInput(t *testing.T) {
	cfg := testConfig(t)
	var log bytes.Buffer
	rec := &fakeRecorder{}
	r := &fakeRenderer{}
	d := NewDispatcher(cfg, r, rec, &log)

	_, err := d.ConvertFile(filepath.Join(cfg.InputDir, "vanished.md"), types.FormatEPUB, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputNotFound)

	var rerr *RenderError
	assert.False(t, errors.As(err, &rerr), "missing input is not a render failure")
	assert.Zero(t, r.calls)
	assert.Contains(t, log.String(), "failed:  vanished.md")

	require.Len(t, rec.records, 1)
	assert.Equal(t, types.RunFailed, rec.records[0].Status)
}

func TestConvertBatch(t *testing.T) {
	cfg := testConfig(t)
	a := writeInput(t, cfg, "a.md", "# Paper A\n")
	b := writeInput(t, cfg, "b.md", "# Paper B\n")
	missing := filepath.Join(cfg.InputDir, "c.md")

	var log bytes.Buffer
	d := NewDispatcher(cfg, &fakeRenderer{}, nil, &log)
	result := d.ConvertBatch([]string{a, missing, b}, types.FormatEPUB, false)

	assert.Equal(t, 2, result.Converted)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	assert.Contains(t, log.String(), "Batch summary: 2 converted, 1 failed (total: 3)")
	assert.ElementsMatch(t, []string{"Paper_A.epub", "Paper_B.epub"}, outputFiles(t, cfg.OutputDir))
}
