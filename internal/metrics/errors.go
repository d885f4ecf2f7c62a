package metrics

import "codeberg.org/mutker/marketintel/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig       = errors.ErrInvalidConfig
	ErrInvalidTextfilePath = errors.ErrorCode("metrics_invalid_textfile_path")

	// Registration Errors
	ErrRegisterFailed = errors.ErrInitMetrics

	// Storage Errors
	ErrStorageAccess = errors.ErrorCode("metrics_storage_access_failed")
	ErrStorageClose  = errors.ErrCloseMetrics
)
