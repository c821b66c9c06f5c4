package logstore

import "errors"

// Sentinel kinds for log-store errors.
var (
	// ErrMissingLog means the log file does not exist yet. Callers treat
	// this as "no data", not as a failure.
	ErrMissingLog = errors.New("log file missing")

	// ErrCorruptLog means an already-accepted record failed to parse.
	// Logs are assumed clean once written, so reads abort on it.
	ErrCorruptLog = errors.New("corrupt log record")

	// ErrAppend wraps I/O failures on the write path.
	ErrAppend = errors.New("log append failed")
)
