// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
)

// ErrInputNotFound is returned when the selected Markdown file does not
// exist at read time.
var ErrInputNotFound = errors.New("input file not found")

// RenderError wraps a failure reported by the render engine.
type RenderError struct {
	Engine string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering with %s: %v", e.Engine, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
