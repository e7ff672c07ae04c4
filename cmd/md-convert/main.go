// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the md-convert CLI, which turns a
// Markdown file into a DOCX or EPUB document through pandoc.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/md-convert/internal/logger"
	"github.com/pdiddy/md-convert/internal/render"
	"github.com/pdiddy/md-convert/internal/selector"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd converts one Markdown file, or all of them with --all.
var rootCmd = &cobra.Command{
	Use:   "md-convert [file]",
	Short: "Convert Markdown files to DOCX or EPUB",
	Long: `md-convert picks a Markdown file from the input directory, derives a
title, rewrites citation links of the form ([text](url)), and renders the
result with pandoc into the output directory.

For DOCX, citations become footnotes; for EPUB they become plain links.
--remove-citations drops them for either format. Pass a file path to skip
selection, or --all to convert every file in the input directory.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(viper.GetBool("verbose"))
	},
	RunE: runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./md-convert.yaml or ~/.config/md-convert/config.yaml)")
	pf.String("input-dir", "input", "directory containing Markdown files")
	pf.String("output-dir", "output", "directory for rendered documents")
	pf.String("engine", render.EngineAuto, "render engine: auto, pandoc, docker, or podman")
	pf.BoolP("verbose", "v", false, "print diagnostic messages")

	bindFlags(pf, map[string]string{
		"input_dir":  "input-dir",
		"output_dir": "output-dir",
		"engine":     "engine",
		"verbose":    "verbose",
	})
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("md-convert")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "md-convert"))
		}
	}

	viper.SetEnvPrefix("MD_CONVERT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, selector.ErrNoSelection) {
			fmt.Println("No file selected. Exiting.")
			return
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
