// Package hexutil renders keys, hashes, signatures and encoded messages as
// lowercase hex and parses them back.
package hexutil

import (
	"encoding/hex"
	"strings"
)

// BytesToHex returns the lowercase hex encoding of b, without a 0x prefix.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// HexToBytes decodes s. Surrounding whitespace and a leading 0x are ignored,
// and upper-case digits are accepted.
func HexToBytes(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}
