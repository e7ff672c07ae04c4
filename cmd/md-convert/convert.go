// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/md-convert/internal/convert"
	"github.com/pdiddy/md-convert/internal/render"
	"github.com/pdiddy/md-convert/internal/selector"
	"github.com/pdiddy/md-convert/pkg/types"
)

func init() {
	f := rootCmd.Flags()
	f.StringP("format", "f", string(types.FormatEPUB), "output format: epub or docx")
	f.BoolP("interactive", "i", true, "choose the file interactively when no path is given")
	f.BoolP("remove-citations", "r", false, "drop ([text](url)) citations instead of converting them")
	f.Bool("all", false, "convert every Markdown file in the input directory")

	bindFlags(f, map[string]string{
		"format":           "format",
		"remove_citations": "remove-citations",
	})
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, err := render.Detect(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("Render engine: %s\n", engine.Name())

	dispatcher, closeFn, err := newDispatcher(cfg, engine)
	if err != nil {
		return err
	}
	defer closeFn()

	all, _ := cmd.Flags().GetBool("all")
	if all {
		files, err := selector.FindMarkdown(cfg.InputDir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return selector.ErrNoSelection
		}
		result := dispatcher.ConvertBatch(files, cfg.Format, cfg.RemoveCitations)
		if result.HasFailures() {
			return fmt.Errorf("%d file(s) failed conversion", result.Failed)
		}
		return nil
	}

	interactive, _ := cmd.Flags().GetBool("interactive")
	path, err := selectFile(cfg, args, interactive)
	if err != nil {
		return err
	}

	res, err := dispatcher.ConvertFile(path, cfg.Format, cfg.RemoveCitations)
	if err != nil {
		return err
	}
	fmt.Printf("Output saved to: '%s'\n", res.OutputPath)
	return nil
}

// selectFile resolves the file to convert: an explicit path argument, the
// interactive selector, or the most recently modified input file.
func selectFile(cfg types.ConverterConfig, args []string, interactive bool) (string, error) {
	var sel selector.Selector
	switch {
	case len(args) == 1:
		return selector.Static{Path: args[0]}.Select(nil)
	case interactive:
		sel = selector.Interactive(os.Stdin, os.Stdout)
	default:
		sel = selector.Latest{}
	}

	files, err := selector.FindMarkdown(cfg.InputDir)
	if err != nil {
		return "", err
	}
	return sel.Select(files)
}

// newDispatcher wires the engine and optional history ledger into a
// dispatcher. The returned func closes the ledger.
func newDispatcher(cfg types.ConverterConfig, engine render.Engine) (*convert.Dispatcher, func(), error) {
	store, err := openHistory(cfg)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		return convert.NewDispatcher(cfg, engine, nil, os.Stdout), func() {}, nil
	}
	return convert.NewDispatcher(cfg, engine, store, os.Stdout), func() { store.Close() }, nil
}
