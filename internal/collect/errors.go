package collect

import "codeberg.org/mutker/marketintel/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig

	// Fetch Errors
	ErrFeedFetch        = errors.ErrorCode("collect_feed_fetch_failed")
	ErrCrunchbaseStatus = errors.ErrorCode("collect_crunchbase_bad_status")
	ErrCrunchbaseDecode = errors.ErrorCode("collect_crunchbase_decode_failed")
	ErrCrunchbaseFetch  = errors.ErrorCode("collect_crunchbase_fetch_failed")
)
