// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// containerMount is where the work directory is mounted inside the pandoc
// container. Sidecar files referenced by relative path resolve against it.
const containerMount = "/data"

// containerEngine runs pandoc inside a container image. Docker and Podman
// share the same logic; they differ only in binary name and the subcommand
// used to check image existence. The document is written to stdout and
// streamed into the output path on the host.
type containerEngine struct {
	bin           string
	imageCheckCmd []string // e.g. ["image", "inspect"] for docker
	image         string
	workDir       string
	exec          executor
}

func newDockerEngine(exec executor, image, workDir string) *containerEngine {
	return &containerEngine{
		bin:           binDocker,
		imageCheckCmd: []string{"image", "inspect"},
		image:         image,
		workDir:       workDir,
		exec:          exec,
	}
}

func newPodmanEngine(exec executor, image, workDir string) *containerEngine {
	return &containerEngine{
		bin:           binPodman,
		imageCheckCmd: []string{"image", "exists"},
		image:         image,
		workDir:       workDir,
		exec:          exec,
	}
}

func (c *containerEngine) Name() string { return c.bin }

func (c *containerEngine) Available() bool {
	if _, err := c.exec.LookPath(c.bin); err != nil {
		return false
	}
	if c.exec.RunSilent(c.bin, "info") != nil {
		return false
	}
	return c.imageExists() == nil
}

func (c *containerEngine) imageExists() error {
	args := make([]string, 0, len(c.imageCheckCmd)+1)
	args = append(args, c.imageCheckCmd...)
	args = append(args, c.image)

	if err := c.exec.RunSilent(c.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", c.image, c.bin, err)
	}
	return nil
}

func (c *containerEngine) Render(text, to, from, outputPath string, args []string) error {
	mount, err := filepath.Abs(c.workDir)
	if err != nil {
		return fmt.Errorf("resolving work directory %s: %w", c.workDir, err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputPath, err)
	}
	defer out.Close()

	runArgs := []string{
		"run", "--rm", "-i",
		"-v", mount + ":" + containerMount,
		"-w", containerMount,
		c.image,
	}
	runArgs = append(runArgs, pandocArgs(to, from, "-", args)...)

	var stderr bytes.Buffer
	if err := c.exec.RunPiped("", c.bin, runArgs, strings.NewReader(text), out, &stderr); err != nil {
		return commandError(c.bin+" "+c.image, err, &stderr)
	}
	return out.Close()
}
