package publish

import "codeberg.org/mutker/marketintel/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrorCode("publish_invalid_config")
	ErrClientInit    = errors.ErrorCode("publish_client_init_failed")

	// Upload Errors
	ErrOpenArtifact  = errors.ErrorCode("publish_open_artifact_failed")
	ErrUpload        = errors.ErrorCode("publish_upload_failed")
	ErrUploadTimeout = errors.ErrorCode("publish_upload_timeout")
)
