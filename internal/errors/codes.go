package errors

// Common error codes
const (
	// System errors
	ErrInternal ErrorCode = "internal_error"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Shutdown errors
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Resource errors
	ErrAlreadyRunning ErrorCode = "already_running"

	// Application errors
	ErrCollect    ErrorCode = "collect_failed"
	ErrBuild      ErrorCode = "build_failed"
	ErrServe      ErrorCode = "serve_failed"
	ErrCorruptRow ErrorCode = "corrupt_row"

	// Metrics errors
	ErrInitMetrics  ErrorCode = "init_metrics_failed"
	ErrCloseMetrics ErrorCode = "close_metrics_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidConfig:   "Invalid configuration",
	ErrReadConfig:      "Failed to read configuration",
	ErrInvalidInterval: "Invalid interval value",
	ErrInvalidLogLevel: "Invalid log level",
	ErrShutdownFailed:  "Shutdown failed",
	ErrAlreadyRunning:  "Another run is already in progress",
	ErrCollect:         "Failed to collect data",
	ErrBuild:           "Failed to build report",
	ErrServe:           "Failed to serve preview",
	ErrCorruptRow:      "Corrupt table row",
	ErrInitMetrics:     "Failed to initialize metrics",
	ErrCloseMetrics:    "Failed to write metrics",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
