package keys

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/fiddotdev/hub-go/hexutil"
	"github.com/fiddotdev/hub-go/message"
)

// deriveInfo namespaces app derivation so seeds are never shared with other
// HKDF users of the same root.
const deriveInfo = "hub-go-signer-v1"

// GenerateSeed reads a fresh Ed25519 seed from rand.
func GenerateSeed(rand io.Reader) ([]byte, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, fmt.Errorf("keys: generate seed: %w", err)
	}
	return seed, nil
}

// SignerFromSeed expands seed into a message signer.
func SignerFromSeed(seed []byte) (*message.Ed25519Signer, error) {
	if l := len(seed); l != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSeed, ed25519.SeedSize, l)
	}
	return message.NewEd25519Signer(ed25519.NewKeyFromSeed(seed))
}

// PublicKeyHex returns the hex-encoded Ed25519 public key for seed, the form
// hubs expect when a signer is registered on chain.
func PublicKeyHex(seed []byte) (string, error) {
	if l := len(seed); l != ed25519.SeedSize {
		return "", fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSeed, ed25519.SeedSize, l)
	}
	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	return hexutil.BytesToHex(pub), nil
}

// DeriveSignerSeed deterministically derives an app-specific seed from a root
// seed with HKDF-SHA256. Different apps never share a signer key.
func DeriveSignerSeed(rootSeed []byte, app string) ([]byte, error) {
	if len(rootSeed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: root seed must be %d bytes", ErrInvalidSeed, ed25519.SeedSize)
	}
	if err := CheckName(app); err != nil {
		return nil, err
	}
	r := hkdf.New(sha256.New, rootSeed, nil, []byte(deriveInfo+"\x00app:"+app))
	out := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("keys: derive seed: %w", err)
	}
	return out, nil
}
