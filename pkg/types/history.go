// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunStatus is the outcome of a recorded conversion run.
type RunStatus string

const (
	RunConverted RunStatus = "converted"
	RunFailed    RunStatus = "failed"
)

// RunRecord is one row of the conversion history ledger.
type RunRecord struct {
	ID         string       `json:"id" yaml:"id"`
	SourcePath string       `json:"source_path" yaml:"source_path"`
	Title      string       `json:"title" yaml:"title"`
	Format     OutputFormat `json:"format" yaml:"format"`
	Mode       CitationMode `json:"mode" yaml:"mode"`
	OutputPath string       `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Citations  int          `json:"citations" yaml:"citations"`
	Status     RunStatus    `json:"status" yaml:"status"`
	Error      string       `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt  time.Time    `json:"created_at" yaml:"created_at"`
}
