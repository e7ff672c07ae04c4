// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/md-convert/internal/logger"
	"github.com/pdiddy/md-convert/pkg/types"
)

// RenderOptions returns the pandoc arguments for format. Sidecar files
// (EPUB metadata and cover, DOCX reference doc) are attached only when they
// exist in the work directory. title is set as EPUB metadata unless the
// metadata sidecar already defines one.
func RenderOptions(cfg types.ConverterConfig, format types.OutputFormat, title string) ([]string, error) {
	switch format {
	case types.FormatDOCX:
		opts := []string{"--wrap=none"}
		if ref, ok := sidecar(cfg, cfg.ReferenceDoc); ok {
			opts = append(opts, "--reference-doc="+ref)
		}
		return opts, nil

	case types.FormatEPUB:
		opts := []string{
			"--toc",
			"--toc-depth=" + strconv.Itoa(orDefault(cfg.TOCDepth, types.DefaultTOCDepth)),
			"--split-level=" + strconv.Itoa(orDefault(cfg.SplitLevel, types.DefaultSplitLevel)),
		}
		lang := cfg.Language
		if lang == "" {
			lang = types.DefaultLanguage
		}
		opts = append(opts, "--metadata=lang:"+lang)

		sidecarHasTitle := false
		if meta, ok := sidecar(cfg, cfg.MetadataFile); ok {
			fields, err := readMetadata(resolve(cfg.WorkDir, meta))
			if err != nil {
				return nil, err
			}
			_, sidecarHasTitle = fields["title"]
			opts = append(opts, "--metadata-file="+meta)
		}
		if !sidecarHasTitle && title != "" {
			opts = append(opts, "--metadata=title:"+title)
		}

		if cover, ok := sidecar(cfg, cfg.CoverImage); ok {
			opts = append(opts, "--epub-cover-image="+cover)
		}
		return opts, nil

	default:
		return nil, fmt.Errorf("unsupported output format %q: want docx or epub", format)
	}
}

// sidecar reports whether the optional file name exists relative to the
// work directory. The name is returned unchanged for pandoc, which runs
// inside the work directory.
func sidecar(cfg types.ConverterConfig, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	info, err := os.Stat(resolve(cfg.WorkDir, name))
	if err != nil || info.IsDir() {
		logger.Debug("sidecar %s not present, skipping", name)
		return "", false
	}
	logger.Info("attaching %s", name)
	return name, true
}

// readMetadata parses a YAML metadata sidecar.
func readMetadata(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata file %s: %w", path, err)
	}
	fields := map[string]any{}
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parsing metadata file %s: %w", path, err)
	}
	return fields, nil
}

func resolve(workDir, name string) string {
	if filepath.IsAbs(name) || workDir == "" {
		return name
	}
	return filepath.Join(workDir, name)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
