package message

import (
	"fmt"
	"math"

	"github.com/fiddotdev/hub-go/protocol"
)

// MessageDataOptions are the per-message envelope fields supplied by the caller.
type MessageDataOptions struct {
	FID     uint64
	Network protocol.Network
	// Timestamp is an explicit protocol timestamp; nil means Now().
	Timestamp *uint32
}

// MakeMessageData assembles an unsigned envelope.
//
// The caller must pass a body that matches messageType; no cross-check is
// made here (see BodyMatchesType).
func MakeMessageData(body protocol.Body, messageType protocol.MessageType, opts MessageDataOptions) (*protocol.MessageData, error) {
	ts, err := resolveTimestamp(opts.Timestamp)
	if err != nil {
		return nil, err
	}
	if !protocol.BodyIsSet(body) {
		return nil, newError(KindInvalidBody, "HUB-BUILD-001", "missing message body")
	}
	return &protocol.MessageData{
		Type:      messageType,
		FID:       opts.FID,
		Timestamp: ts,
		Network:   opts.Network,
		Body:      body,
	}, nil
}

func resolveTimestamp(explicit *uint32) (uint32, error) {
	if explicit != nil {
		return *explicit, nil
	}
	now, err := Now()
	if err != nil {
		return 0, err
	}
	// The wire field is uint32.
	if now < 0 || now > math.MaxUint32 {
		return 0, newError(KindTimestampUnavailable, "HUB-TIME-004", fmt.Sprintf("protocol time %d does not fit the wire timestamp", now))
	}
	return uint32(now), nil
}
