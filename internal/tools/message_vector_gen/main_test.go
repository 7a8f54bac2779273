package main

import (
	"bytes"
	"testing"

	"github.com/fiddotdev/hub-go/message"
	"github.com/fiddotdev/hub-go/protocol"
)

func TestVectorsVerifyAndAreStable(t *testing.T) {
	first, err := vectors()
	if err != nil {
		t.Fatalf("vectors: %v", err)
	}
	second, err := vectors()
	if err != nil {
		t.Fatalf("vectors: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("vector count changed: %d vs %d", len(first), len(second))
	}
	for i, v := range first {
		b, err := v.Message.MarshalBinary()
		if err != nil {
			t.Fatalf("%s: MarshalBinary: %v", v.Name, err)
		}
		decoded := new(protocol.Message)
		if err := decoded.UnmarshalBinary(b); err != nil {
			t.Fatalf("%s: UnmarshalBinary: %v", v.Name, err)
		}
		if err := message.VerifyMessage(decoded); err != nil {
			t.Fatalf("%s: VerifyMessage: %v", v.Name, err)
		}
		if !message.BodyMatchesType(decoded.Data) {
			t.Fatalf("%s: body does not match type %s", v.Name, decoded.Data.Type)
		}
		// Ed25519 is deterministic, so identical inputs give identical bytes.
		again, _ := second[i].Message.MarshalBinary()
		if !bytes.Equal(b, again) {
			t.Fatalf("%s: encoding is not deterministic", v.Name)
		}
	}
}
