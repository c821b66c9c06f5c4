package answers

import "errors"

// Sentinel kinds for answer-table errors.
var (
	// ErrMalformedAnswer marks a source table that failed column-count,
	// uniqueness, numeric or sum-to-100 validation. Surfaced to the admin
	// uploader; the previously cached set stays active.
	ErrMalformedAnswer = errors.New("malformed answer table")
)
