package message

import (
	"crypto/ed25519"
	"fmt"
	"io"

	"lukechampine.com/blake3"

	"github.com/fiddotdev/hub-go/protocol"
)

// HashLength is the number of BLAKE3 output bytes used as the message hash.
// It is part of the wire contract.
const HashLength = 20

// HashMessageData returns the first HashLength bytes of the BLAKE3 extendable
// output over the encoded message data.
func HashMessageData(dataBytes []byte) []byte {
	h := blake3.New(32, nil)
	_, _ = h.Write(dataBytes)
	out := make([]byte, HashLength)
	_, _ = io.ReadFull(h.XOF(), out)
	return out
}

// Signer signs message hashes. Implementations hold key material that the
// caller owns; this package never retains a Signer past a call.
type Signer interface {
	Scheme() protocol.SignatureScheme
	// SignerKey returns the public key embedded in signed messages.
	SignerKey() []byte
	SignMessageHash(hash []byte) ([]byte, error)
}

// Ed25519Signer signs with a caller-supplied Ed25519 private key.
type Ed25519Signer struct {
	priv ed25519.PrivateKey
}

func NewEd25519Signer(priv ed25519.PrivateKey) (*Ed25519Signer, error) {
	if l := len(priv); l != ed25519.PrivateKeySize {
		return nil, newError(KindSigning, "HUB-SIGN-001", fmt.Sprintf("ed25519 private key must be %d bytes, got %d", ed25519.PrivateKeySize, l))
	}
	return &Ed25519Signer{priv: priv}, nil
}

func (s *Ed25519Signer) Scheme() protocol.SignatureScheme {
	return protocol.SignatureSchemeEd25519
}

func (s *Ed25519Signer) SignerKey() []byte {
	pub := s.priv.Public().(ed25519.PublicKey)
	return append([]byte(nil), pub...)
}

func (s *Ed25519Signer) SignMessageHash(hash []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, hash), nil
}

// MakeMessage serializes data canonically, hashes it and signs the hash.
func MakeMessage(data *protocol.MessageData, signer Signer) (*protocol.Message, error) {
	if signer == nil {
		return nil, newError(KindSigning, "HUB-SIGN-003", "missing signer")
	}
	dataBytes, err := data.MarshalBinary()
	if err != nil {
		return nil, wrapError(KindEncoding, "HUB-ENC-001", "encode message data", err)
	}
	hash := HashMessageData(dataBytes)

	sig, err := signer.SignMessageHash(hash)
	if err != nil {
		return nil, wrapError(KindSigning, "HUB-SIGN-002", "sign message hash", err)
	}
	return &protocol.Message{
		Data:            data,
		Hash:            hash,
		HashScheme:      protocol.HashSchemeBlake3,
		Signature:       sig,
		SignatureScheme: signer.Scheme(),
		Signer:          signer.SignerKey(),
	}, nil
}
