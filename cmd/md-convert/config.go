// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/md-convert/internal/history"
	"github.com/pdiddy/md-convert/pkg/types"
)

func init() {
	d := types.DefaultConfig()
	viper.SetDefault("input_dir", d.InputDir)
	viper.SetDefault("output_dir", d.OutputDir)
	viper.SetDefault("format", string(d.Format))
	viper.SetDefault("remove_citations", d.RemoveCitations)
	viper.SetDefault("max_filename_length", d.MaxFilenameLength)
	viper.SetDefault("language", d.Language)
	viper.SetDefault("toc_depth", d.TOCDepth)
	viper.SetDefault("split_level", d.SplitLevel)
	viper.SetDefault("metadata_file", d.MetadataFile)
	viper.SetDefault("cover_image", d.CoverImage)
	viper.SetDefault("reference_doc", d.ReferenceDoc)
	viper.SetDefault("work_dir", d.WorkDir)
	viper.SetDefault("engine", d.Engine)
	viper.SetDefault("container_image", d.ContainerImage)
	viper.SetDefault("history_db", d.HistoryDB)
}

// bindFlags binds config keys to flags so flag > env > config file >
// default.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

// loadConfig resolves the converter configuration from viper.
func loadConfig() (types.ConverterConfig, error) {
	cfg := types.ConverterConfig{
		InputDir:          viper.GetString("input_dir"),
		OutputDir:         viper.GetString("output_dir"),
		Format:            types.OutputFormat(viper.GetString("format")),
		RemoveCitations:   viper.GetBool("remove_citations"),
		MaxFilenameLength: viper.GetInt("max_filename_length"),
		Language:          viper.GetString("language"),
		TOCDepth:          viper.GetInt("toc_depth"),
		SplitLevel:        viper.GetInt("split_level"),
		MetadataFile:      viper.GetString("metadata_file"),
		CoverImage:        viper.GetString("cover_image"),
		ReferenceDoc:      viper.GetString("reference_doc"),
		WorkDir:           viper.GetString("work_dir"),
		Engine:            viper.GetString("engine"),
		ContainerImage:    viper.GetString("container_image"),
		HistoryDB:         viper.GetString("history_db"),
	}
	if !cfg.Format.Valid() {
		return cfg, fmt.Errorf("unsupported format %q: want epub or docx", cfg.Format)
	}
	return cfg, nil
}

// openHistory opens the run ledger, or returns nil when it is disabled.
func openHistory(cfg types.ConverterConfig) (*history.Store, error) {
	if cfg.HistoryDB == "" {
		return nil, nil
	}
	return history.Open(cfg.HistoryDB)
}
