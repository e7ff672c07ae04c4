// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"io"
	"strings"
)

// pandocEngine runs a pandoc binary found on PATH from inside the work
// directory. Markdown is piped on stdin and pandoc writes the document to
// the output path itself.
type pandocEngine struct {
	bin     string
	workDir string
	exec    executor
}

func newPandocEngine(exec executor, workDir string) *pandocEngine {
	return &pandocEngine{bin: binPandoc, workDir: workDir, exec: exec}
}

func (p *pandocEngine) Name() string { return p.bin }

func (p *pandocEngine) Available() bool {
	if _, err := p.exec.LookPath(p.bin); err != nil {
		return false
	}
	return p.exec.RunSilent(p.bin, "--version") == nil
}

func (p *pandocEngine) Render(text, to, from, outputPath string, args []string) error {
	var stderr bytes.Buffer
	err := p.exec.RunPiped(p.workDir, p.bin, pandocArgs(to, from, outputPath, args), strings.NewReader(text), io.Discard, &stderr)
	if err != nil {
		return commandError(p.bin, err, &stderr)
	}
	return nil
}
