package message

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/fiddotdev/hub-go/protocol"
)

func propertyData(fid uint64, ts uint32, network int, text string) *protocol.MessageData {
	return &protocol.MessageData{
		Type:      protocol.MessageTypeCastAdd,
		FID:       fid,
		Timestamp: ts,
		Network:   protocol.Network(network),
		Body:      &protocol.CastAddBody{Text: text},
	}
}

func TestMessageProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	priv := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{0x42}, ed25519.SeedSize))
	signer, err := NewEd25519Signer(priv)
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}

	properties.Property("encoding round-trips to identical bytes", prop.ForAll(
		func(fid uint64, ts uint32, network int, text string) bool {
			data := propertyData(fid, ts, network, text)
			b, err := data.MarshalBinary()
			if err != nil {
				return false
			}
			var decoded protocol.MessageData
			if err := decoded.UnmarshalBinary(b); err != nil {
				return false
			}
			again, err := decoded.MarshalBinary()
			return err == nil && bytes.Equal(b, again)
		},
		gen.UInt64(), gen.UInt32(), gen.IntRange(0, 3), gen.AlphaString(),
	))

	properties.Property("hash is the 20-byte digest of the canonical encoding", prop.ForAll(
		func(fid uint64, ts uint32, network int, text string) bool {
			data := propertyData(fid, ts, network, text)
			msg, err := MakeMessage(data, signer)
			if err != nil {
				return false
			}
			b, err := data.MarshalBinary()
			if err != nil {
				return false
			}
			return len(msg.Hash) == HashLength && bytes.Equal(msg.Hash, HashMessageData(b))
		},
		gen.UInt64(), gen.UInt32(), gen.IntRange(0, 3), gen.AlphaString(),
	))

	properties.Property("signature verifies under the embedded signer", prop.ForAll(
		func(fid uint64, ts uint32, network int, text string) bool {
			msg, err := MakeMessage(propertyData(fid, ts, network, text), signer)
			if err != nil {
				return false
			}
			return ed25519.Verify(ed25519.PublicKey(msg.Signer), msg.Hash, msg.Signature) && VerifyMessage(msg) == nil
		},
		gen.UInt64(), gen.UInt32(), gen.IntRange(0, 3), gen.AlphaString(),
	))

	properties.Property("timestamps within the skew window validate", prop.ForAll(
		func(now int64, ahead int64) bool {
			data := propertyData(1, uint32(now+ahead), 1, "x")
			_, err := ValidateMessageDataAt(data, now)
			return err == nil
		},
		gen.Int64Range(86400, 1<<31), gen.Int64Range(-86400, MaxFutureSkew),
	))

	lo, hi := calendarBounds()
	properties.Property("epoch conversion round-trips to the floored second", prop.ForAll(
		func(ms int64) bool {
			pt, err := ToFarcasterTime(ms)
			if err != nil {
				return false
			}
			back, err := FromFarcasterTime(pt)
			if err != nil {
				return false
			}
			return back == floorSecondMillis(ms)
		},
		gen.Int64Range(lo.UnixMilli(), hi.UnixMilli()),
	))

	properties.TestingRun(t)
}

// floorSecondMillis rounds ms down to a whole second. Go's % truncates toward
// zero, so negative remainders are shifted up by a full second.
func floorSecondMillis(ms int64) int64 {
	r := ms % 1000
	if r < 0 {
		r += 1000
	}
	return ms - r
}
