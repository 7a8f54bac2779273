package message

import (
	"testing"

	"github.com/fiddotdev/hub-go/protocol"
)

func TestValidateMessageDataAt_HelloCast(t *testing.T) {
	data := helloData(t)
	got, err := ValidateMessageDataAt(data, 81948677)
	if err != nil {
		t.Fatalf("ValidateMessageDataAt: %v", err)
	}
	if got != data {
		t.Fatalf("expected input returned unchanged")
	}
}

func TestValidateMessageDataAt_FutureSkewBoundary(t *testing.T) {
	const now = int64(1_000_000)
	cases := []struct {
		name string
		ts   uint32
		ok   bool
	}{
		{"past", uint32(now - 3600), true},
		{"now", uint32(now), true},
		{"at limit", uint32(now + MaxFutureSkew), true},
		{"one past limit", uint32(now + MaxFutureSkew + 1), false},
		{"far future", uint32(now + 86400), false},
	}
	for _, tc := range cases {
		data := &protocol.MessageData{
			Type:      protocol.MessageTypeCastAdd,
			Timestamp: tc.ts,
			Network:   protocol.NetworkMainnet,
			Body:      &protocol.CastAddBody{Text: "x"},
		}
		_, err := ValidateMessageDataAt(data, now)
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !tc.ok {
			requireKind(t, err, KindTimestampInFuture, RuleTimestampSkew)
		}
	}
}

func TestValidateMessageDataAt_InvalidNetwork(t *testing.T) {
	data := helloData(t)
	data.Network = protocol.Network(9999)
	_, err := ValidateMessageDataAt(data, 81948677)
	requireKind(t, err, KindInvalidNetwork, RuleNetwork)
}

func TestValidateMessageDataAt_InvalidType(t *testing.T) {
	data := helloData(t)
	data.Type = protocol.MessageType(99)
	_, err := ValidateMessageDataAt(data, 81948677)
	requireKind(t, err, KindInvalidMessageType, RuleMessageType)
}

func TestValidateMessageDataAt_NoneEnumsAccepted(t *testing.T) {
	data := &protocol.MessageData{Body: &protocol.CastAddBody{}}
	if _, err := ValidateMessageDataAt(data, 0); err != nil {
		t.Fatalf("NONE network and type should pass: %v", err)
	}
}

func TestValidateMessageDataAt_RuleOrder(t *testing.T) {
	data := &protocol.MessageData{
		Type:      protocol.MessageType(99),
		Timestamp: 5000,
		Network:   protocol.Network(42),
		Body:      &protocol.CastAddBody{},
	}
	_, err := ValidateMessageDataAt(data, 0)
	requireKind(t, err, KindTimestampInFuture, RuleTimestampSkew)

	data.Timestamp = 0
	_, err = ValidateMessageDataAt(data, 0)
	requireKind(t, err, KindInvalidNetwork, RuleNetwork)

	all := ValidateMessageDataAll(&protocol.MessageData{Type: 99, Timestamp: 5000, Network: 42}, 0)
	if len(all) != 3 {
		t.Fatalf("expected 3 failures, got %d", len(all))
	}
	for i, id := range []string{RuleTimestampSkew, RuleNetwork, RuleMessageType} {
		if RuleID(all[i]) != id {
			t.Fatalf("failure %d: RuleID %s, want %s", i, RuleID(all[i]), id)
		}
	}
}

func TestValidateMessageDataAt_Nil(t *testing.T) {
	_, err := ValidateMessageDataAt(nil, 0)
	requireKind(t, err, KindInternal, "HUB-VAL-001")
}

func TestVerifyMessage_Tamper(t *testing.T) {
	signer := testSigner(t, 9)
	fresh := func() *protocol.Message {
		msg, err := MakeMessage(helloData(t), signer)
		if err != nil {
			t.Fatalf("MakeMessage: %v", err)
		}
		return msg
	}

	msg := fresh()
	msg.Data.FID = 1118
	requireKind(t, VerifyMessage(msg), KindVerification, "HUB-VER-102")

	msg = fresh()
	msg.Signature[0] ^= 0xff
	requireKind(t, VerifyMessage(msg), KindVerification, "HUB-VER-204")

	msg = fresh()
	msg.HashScheme = protocol.HashSchemeNone
	requireKind(t, VerifyMessage(msg), KindVerification, "HUB-VER-101")

	msg = fresh()
	msg.SignatureScheme = protocol.SignatureSchemeEip712
	requireKind(t, VerifyMessage(msg), KindVerification, "HUB-VER-201")

	msg = fresh()
	msg.Signer = msg.Signer[:8]
	requireKind(t, VerifyMessage(msg), KindVerification, "HUB-VER-202")

	msg = fresh()
	msg.Signature = msg.Signature[:8]
	requireKind(t, VerifyMessage(msg), KindVerification, "HUB-VER-203")

	requireKind(t, VerifyMessage(nil), KindVerification, "HUB-VER-001")
}

func TestVerifyMessage_DataBytesPreferred(t *testing.T) {
	msg, err := MakeMessage(helloData(t), testSigner(t, 4))
	if err != nil {
		t.Fatalf("MakeMessage: %v", err)
	}
	msg.DataBytes, err = msg.Data.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	// Data no longer matches, but the signed bytes travel alongside it.
	msg.Data = &protocol.MessageData{Body: &protocol.CastAddBody{Text: "other"}}
	if err := VerifyMessage(msg); err != nil {
		t.Fatalf("VerifyMessage: %v", err)
	}
}

func TestValidateMessage(t *testing.T) {
	msg, err := MakeMessage(helloData(t), testSigner(t, 5))
	if err != nil {
		t.Fatalf("MakeMessage: %v", err)
	}
	if _, err := ValidateMessage(msg, 81948677); err != nil {
		t.Fatalf("ValidateMessage: %v", err)
	}
	_, err = ValidateMessage(msg, 81948677-MaxFutureSkew-1)
	requireKind(t, err, KindTimestampInFuture, RuleTimestampSkew)
}
