// Command message_vector_gen prints deterministic signed messages for use as
// golden vectors: each line is "<name> <hash-hex> <message-hex>".
package main

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"os"

	"github.com/fiddotdev/hub-go/hexutil"
	"github.com/fiddotdev/hub-go/message"
	"github.com/fiddotdev/hub-go/protocol"
)

type vector struct {
	Name    string
	Message *protocol.Message
}

func mustSigner(seedByte byte) *message.Ed25519Signer {
	signer, err := message.NewEd25519Signer(ed25519.NewKeyFromSeed(bytes.Repeat([]byte{seedByte}, ed25519.SeedSize)))
	if err != nil {
		panic(err)
	}
	return signer
}

func vectors() ([]vector, error) {
	signer := mustSigner(0xA1)
	ts := uint32(79120000)
	opts := message.MessageDataOptions{FID: 1, Network: protocol.NetworkMainnet, Timestamp: &ts}
	parent := &protocol.CastID{FID: 2, Hash: bytes.Repeat([]byte{0x22}, message.HashLength)}

	type build func() (*protocol.Message, error)
	builds := []struct {
		name string
		fn   build
	}{
		{"cast_add", func() (*protocol.Message, error) {
			return message.MakeCastAdd(&protocol.CastAddBody{Text: "hello"}, opts, signer)
		}},
		{"cast_reply", func() (*protocol.Message, error) {
			return message.MakeCastAdd(&protocol.CastAddBody{
				Text:              "gm @2",
				Mentions:          []uint64{2},
				MentionsPositions: []uint32{3},
				ParentCastID:      parent,
				Embeds:            []*protocol.Embed{{URL: "https://example.com"}},
			}, opts, signer)
		}},
		{"cast_remove", func() (*protocol.Message, error) {
			return message.MakeCastRemove(&protocol.CastRemoveBody{TargetHash: parent.Hash}, opts, signer)
		}},
		{"reaction_like", func() (*protocol.Message, error) {
			return message.MakeReactionAdd(&protocol.ReactionBody{Type: protocol.ReactionTypeLike, TargetCastID: parent}, opts, signer)
		}},
		{"link_follow", func() (*protocol.Message, error) {
			return message.MakeLinkAdd(&protocol.LinkBody{Type: "follow", TargetFID: 2}, opts, signer)
		}},
		{"user_data_bio", func() (*protocol.Message, error) {
			return message.MakeUserDataAdd(&protocol.UserDataBody{Type: protocol.UserDataTypeBio, Value: "hello"}, opts, signer)
		}},
	}

	out := make([]vector, 0, len(builds))
	for _, b := range builds {
		msg, err := b.fn()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.name, err)
		}
		out = append(out, vector{Name: b.name, Message: msg})
	}
	return out, nil
}

func main() {
	vs, err := vectors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, v := range vs {
		b, err := v.Message.MarshalBinary()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("%s %s %s\n", v.Name, hexutil.BytesToHex(v.Message.Hash), hexutil.BytesToHex(b))
	}
}
