package report

import "codeberg.org/mutker/marketintel/internal/errors"

const (
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrRender        = errors.ErrorCode("report_render_failed")
	ErrWrite         = errors.ErrorCode("report_write_failed")
)

// artifactError is attached to render and write failures.
type artifactError struct {
	Artifact string
	Section  string
}
