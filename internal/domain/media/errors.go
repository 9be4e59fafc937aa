package media

import "errors"

// Sentinel errors returned by the service. Handlers map these to HTTP
// statuses; everything unmatched is reported as an internal fault.
var (
	// ErrNotFound indicates the record does not exist.
	ErrNotFound = errors.New("media record not found")

	// ErrValidation indicates rejected client input (missing file, oversize payload).
	ErrValidation = errors.New("invalid media request")

	// ErrUnsupportedMedia indicates the record's file type cannot be analyzed.
	ErrUnsupportedMedia = errors.New("media type does not support analysis")

	// ErrServiceUnavailable indicates a dependent store or adapter is not configured.
	ErrServiceUnavailable = errors.New("dependent service unavailable")

	// ErrUploadFailed indicates the object-store write failed before any record was created.
	ErrUploadFailed = errors.New("media upload failed")

	// ErrAnalysisFailed indicates the vision adapter call failed; the record is untouched.
	ErrAnalysisFailed = errors.New("media analysis failed")

	// ErrStoreUnavailable indicates an unexpected document-store fault.
	ErrStoreUnavailable = errors.New("document store unavailable")
)
