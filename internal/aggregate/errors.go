package aggregate

import "codeberg.org/mutker/marketintel/internal/errors"

const (
	ErrDerivedPresent = errors.ErrorCode("aggregate_derived_metric_present")
	ErrUnknownFamily  = errors.ErrorCode("aggregate_unknown_family")
)
