package policy

import "errors"

var (
	// ErrScoring is returned when a model cannot evaluate or learn from a context.
	ErrScoring = errors.New("policy scoring failed")
	// ErrPersistence is returned when a model cannot be saved or loaded.
	ErrPersistence = errors.New("policy persistence failed")
	// ErrBlobNotFound is returned by a BlobStore when no model exists for a user.
	ErrBlobNotFound = errors.New("policy blob not found")
	// ErrInvalidModel is returned when a persisted model cannot be decoded.
	ErrInvalidModel = errors.New("invalid policy model")
	// ErrEmptyUserID is returned for calls without a user id.
	ErrEmptyUserID = errors.New("user id is required")
)
