package storage

import "errors"

// Archive errors. Backends return them bare or wrapped; match with errors.Is.
var (
	// ErrNotFound means no backend holds the requested message. MultiCAS
	// keeps trying later backends on it, and devhub reports it as NotFound.
	ErrNotFound = errors.New("storage: message not archived")

	// ErrInvalidCID rejects an undefined CID before any backend is consulted.
	ErrInvalidCID = errors.New("storage: invalid message cid")

	// ErrCIDMismatch means stored bytes no longer hash to their CID, or that
	// ReplicatingCAS backends disagreed about a write. devhub reports it as
	// DataLoss.
	ErrCIDMismatch = errors.New("storage: archived bytes do not match cid")

	// ErrImmutable means a different encoding already sits under the same
	// CID. Re-archiving an identical signed message is not an error.
	ErrImmutable = errors.New("storage: archived message cannot be replaced")

	// ErrNoBackends is returned by an empty MultiCAS or ReplicatingCAS and by
	// a nil MessageStore.
	ErrNoBackends = errors.New("storage: no archive backends configured")

	// ErrCorrupt wraps decode or verification failures when MessageStore.Get
	// reads back bytes that are not a valid signed message.
	ErrCorrupt = errors.New("storage: archived message is corrupt")
)

// IsNotFound reports whether err means the message is not archived anywhere.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
