package pipeline

import "codeberg.org/mutker/marketintel/internal/errors"

const (
	ErrUnknownStage = errors.ErrorCode("pipeline_unknown_stage")
	ErrCancelled    = errors.ErrorCode("pipeline_cancelled")
	ErrCollect      = errors.ErrCollect
	ErrBuild        = errors.ErrBuild
)
