package preview

import "codeberg.org/mutker/marketintel/internal/errors"

const (
	ErrInvalidConfig = errors.ErrorCode("preview_invalid_config")
	ErrPortInUse     = errors.ErrorCode("preview_port_in_use")
	ErrListen        = errors.ErrorCode("preview_listen_failed")
	ErrShutdown      = errors.ErrShutdownFailed
)
