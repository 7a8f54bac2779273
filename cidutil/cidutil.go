// Package cidutil derives the archive keys used by storage: CIDv1 with the
// raw multicodec and a sha2-256 multihash.
package cidutil

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

var ErrUnsupportedCID = errors.New("cidutil: unsupported cid")

// Sum returns the CIDv1 (raw + sha2-256) of data.
func Sum(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Parse decodes s and rejects CIDs that Sum could not have produced.
func Parse(s string) (cid.Cid, error) {
	id, err := cid.Decode(s)
	if err != nil {
		return cid.Undef, err
	}
	pfx := id.Prefix()
	if pfx.Version != 1 || pfx.Codec != cid.Raw || pfx.MhType != multihash.SHA2_256 {
		return cid.Undef, fmt.Errorf("%w: %s (want CIDv1 raw sha2-256)", ErrUnsupportedCID, s)
	}
	return id, nil
}

// Matches reports whether data hashes to id.
func Matches(id cid.Cid, data []byte) bool {
	got, err := Sum(data)
	return err == nil && got == id
}
