// Package keys manages Ed25519 signer seeds for hub messages.
//
// Stable:
//   - Pure, deterministic primitives: seed parsing, app-seed derivation and
//     public-key formatting.
//
// Experimental:
//   - Filesystem-backed storage (KeyStore). It is a local-first convenience
//     and may change between minor releases.
package keys
