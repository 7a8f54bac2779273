// Package storage archives signed hub messages in content-addressed stores.
package storage

import (
	"context"

	"github.com/ipfs/go-cid"
)

// CAS is a minimal content-addressable store keyed by CIDv1 (raw, sha2-256).
//
// Contract:
// - Put is idempotent and returns the CID derived from the bytes written.
// - Stored objects are immutable.
// - Get returns ErrNotFound when the CID is absent and ErrInvalidCID for cid.Undef.
type CAS interface {
	Put(ctx context.Context, b []byte) (cid.Cid, error)
	Get(ctx context.Context, id cid.Cid) ([]byte, error)
	Has(ctx context.Context, id cid.Cid) (bool, error)
}
