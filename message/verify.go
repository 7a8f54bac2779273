package message

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/fiddotdev/hub-go/protocol"
)

// VerifyMessage checks that msg's hash commits to its data and that the
// signature over the hash verifies under msg.Signer.
//
// When DataBytes is present it is hashed as received; otherwise Data is
// re-encoded canonically.
func VerifyMessage(msg *protocol.Message) error {
	if msg == nil || msg.Data == nil {
		return newError(KindVerification, "HUB-VER-001", "message has no data")
	}
	if msg.HashScheme != protocol.HashSchemeBlake3 {
		return newError(KindVerification, "HUB-VER-101", fmt.Sprintf("unsupported hash scheme %s", msg.HashScheme))
	}
	dataBytes := msg.DataBytes
	if dataBytes == nil {
		b, err := msg.Data.MarshalBinary()
		if err != nil {
			return wrapError(KindEncoding, "HUB-ENC-001", "encode message data", err)
		}
		dataBytes = b
	}
	if !bytes.Equal(HashMessageData(dataBytes), msg.Hash) {
		return newError(KindVerification, "HUB-VER-102", "hash does not match message data")
	}

	if msg.SignatureScheme != protocol.SignatureSchemeEd25519 {
		return newError(KindVerification, "HUB-VER-201", fmt.Sprintf("unsupported signature scheme %s", msg.SignatureScheme))
	}
	if len(msg.Signer) != ed25519.PublicKeySize {
		return newError(KindVerification, "HUB-VER-202", fmt.Sprintf("signer must be %d bytes, got %d", ed25519.PublicKeySize, len(msg.Signer)))
	}
	if len(msg.Signature) != ed25519.SignatureSize {
		return newError(KindVerification, "HUB-VER-203", fmt.Sprintf("signature must be %d bytes, got %d", ed25519.SignatureSize, len(msg.Signature)))
	}
	if !ed25519.Verify(ed25519.PublicKey(msg.Signer), msg.Hash, msg.Signature) {
		return newError(KindVerification, "HUB-VER-204", "signature does not verify")
	}
	return nil
}

// ValidateMessage verifies msg and then validates its envelope against now.
func ValidateMessage(msg *protocol.Message, now int64) (*protocol.Message, error) {
	if err := VerifyMessage(msg); err != nil {
		return nil, err
	}
	if _, err := ValidateMessageDataAt(msg.Data, now); err != nil {
		return nil, err
	}
	return msg, nil
}
