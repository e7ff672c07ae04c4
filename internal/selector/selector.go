// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selector chooses which Markdown file to convert. Interactive
// selectors talk to the user; non-interactive ones decide on their own.
// Cancellation is reported as ErrNoSelection, never by exiting.
package selector

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/term"
)

// ErrNoSelection means no file was chosen: the candidate list was empty or
// the user cancelled.
var ErrNoSelection = errors.New("no file selected")

// Selector picks one path from a list of candidate files.
type Selector interface {
	Select(files []string) (string, error)
}

// FindMarkdown returns the .md files in dir sorted by name, creating dir
// when it does not exist.
func FindMarkdown(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating input directory %s: %w", dir, err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Static always selects a path fixed by the caller. The candidate list is
// ignored.
type Static struct {
	Path string
}

func (s Static) Select([]string) (string, error) {
	if s.Path == "" {
		return "", ErrNoSelection
	}
	return s.Path, nil
}

// Latest selects the most recently modified candidate. Files that cannot be
// stat'ed are skipped.
type Latest struct{}

func (Latest) Select(files []string) (string, error) {
	var (
		best    string
		bestMod int64
	)
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); best == "" || mod > bestMod {
			best, bestMod = f, mod
		}
	}
	if best == "" {
		return "", ErrNoSelection
	}
	return best, nil
}

// Interactive returns the TUI picker when in is a terminal and the
// line-based prompt otherwise.
func Interactive(in *os.File, out io.Writer) Selector {
	if term.IsTerminal(int(in.Fd())) {
		return &Picker{In: in, Out: out}
	}
	return &Prompt{In: in, Out: out}
}
