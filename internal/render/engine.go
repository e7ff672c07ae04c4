// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render runs the external engine (pandoc) that turns preprocessed
// Markdown into DOCX or EPUB. The engine is either a local pandoc binary or
// the pandoc image run through docker or podman.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/pdiddy/md-convert/pkg/types"
)

// SourceFormat is the pandoc reader used for every conversion.
const SourceFormat = "markdown"

const (
	binPandoc = "pandoc"
	binDocker = "docker"
	binPodman = "podman"
)

// Engine names accepted by Detect.
const (
	EngineAuto   = "auto"
	EnginePandoc = binPandoc
	EngineDocker = binDocker
	EnginePodman = binPodman
)

// ErrEngineUnavailable is returned by Detect when no usable render engine
// is installed.
var ErrEngineUnavailable = errors.New("render engine unavailable")

// Engine renders Markdown text into a document file.
type Engine interface {
	// Name returns the engine name ("pandoc", "docker", or "podman").
	Name() string

	// Available reports whether the engine binary exists on PATH and
	// responds to a probe command.
	Available() bool

	// Render converts text from the from format to the to format, writing
	// the document to outputPath. args are passed to pandoc verbatim;
	// relative paths inside them resolve against the configured work
	// directory, so outputPath should be absolute.
	Render(text, to, from, outputPath string, args []string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunPiped(dir, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunPiped(dir, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// pandocArgs builds the common pandoc argument list.
func pandocArgs(to, from, outputPath string, extra []string) []string {
	args := make([]string, 0, 6+len(extra))
	args = append(args, "-f", from, "-t", to, "-o", outputPath)
	return append(args, extra...)
}

// commandError folds captured stderr into err so render failures carry the
// engine's own message.
func commandError(bin string, err error, stderr *bytes.Buffer) error {
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		return fmt.Errorf("%s: %w", bin, err)
	}
	return fmt.Errorf("%s: %w: %s", bin, err, msg)
}

var defaultExec = &osExecutor{}

// Detect returns the engine selected by cfg.Engine. "auto" (or empty) tries
// local pandoc first, then docker, then podman. The returned error wraps
// ErrEngineUnavailable when nothing usable is found.
func Detect(cfg types.ConverterConfig) (Engine, error) {
	return detect(cfg, defaultExec)
}

func detect(cfg types.ConverterConfig, exec executor) (Engine, error) {
	image := cfg.ContainerImage
	if image == "" {
		image = types.DefaultContainerImage
	}
	workDir := cfg.WorkDir
	if workDir == "" {
		workDir = "."
	}

	var candidates []Engine
	switch cfg.Engine {
	case "", EngineAuto:
		candidates = []Engine{
			newPandocEngine(exec, workDir),
			newDockerEngine(exec, image, workDir),
			newPodmanEngine(exec, image, workDir),
		}
	case EnginePandoc:
		candidates = []Engine{newPandocEngine(exec, workDir)}
	case EngineDocker:
		candidates = []Engine{newDockerEngine(exec, image, workDir)}
	case EnginePodman:
		candidates = []Engine{newPodmanEngine(exec, image, workDir)}
	default:
		return nil, fmt.Errorf("unknown render engine %q: want auto, pandoc, docker, or podman", cfg.Engine)
	}

	names := make([]string, 0, len(candidates))
	for _, e := range candidates {
		if e.Available() {
			return e, nil
		}
		names = append(names, e.Name())
	}
	return nil, fmt.Errorf("%w: tried %s; install pandoc from https://pandoc.org/installing.html",
		ErrEngineUnavailable, strings.Join(names, ", "))
}
