// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selector

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// Prompt lists the candidates with 1-based numbers and reads the choice
// from In. Invalid input re-prompts; end of input or "q" cancels.
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

func (p *Prompt) Select(files []string) (string, error) {
	if len(files) == 0 {
		fmt.Fprintln(p.Out, "No .md files found.")
		return "", ErrNoSelection
	}

	fmt.Fprintln(p.Out, "\nPlease select the Markdown file to convert:")
	for i, f := range files {
		fmt.Fprintf(p.Out, "%d. %s\n", i+1, filepath.Base(f))
	}

	scanner := bufio.NewScanner(p.In)
	for {
		fmt.Fprintf(p.Out, "Enter number (1-%d): ", len(files))
		if !scanner.Scan() {
			fmt.Fprintln(p.Out, "\nOperation cancelled by user.")
			return "", ErrNoSelection
		}

		choice := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(choice, "q") {
			return "", ErrNoSelection
		}

		n, err := strconv.Atoi(choice)
		if err != nil {
			fmt.Fprintln(p.Out, "Invalid input. Please enter a number.")
			continue
		}
		if n < 1 || n > len(files) {
			fmt.Fprintln(p.Out, "Invalid number. Please try again.")
			continue
		}
		return files[n-1], nil
	}
}
