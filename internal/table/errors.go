package table

import "codeberg.org/mutker/marketintel/internal/errors"

const (
	ErrMissingColumn = errors.ErrorCode("table_missing_column")
	ErrMalformed     = errors.ErrCorruptRow
	ErrReadFailed    = errors.ErrorCode("table_read_failed")
	ErrWriteFailed   = errors.ErrorCode("table_write_failed")
)

// location is attached to table errors.
type location struct {
	Path   string
	Line   int
	Column string
}
