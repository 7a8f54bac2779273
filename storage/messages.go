package storage

import (
	"context"
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/fiddotdev/hub-go/message"
	"github.com/fiddotdev/hub-go/protocol"
)

// MessageStore archives signed messages in a CAS. Only messages that verify
// are written, and every read is verified again before it is returned.
type MessageStore struct {
	CAS CAS
}

func NewMessageStore(cas CAS) *MessageStore {
	return &MessageStore{CAS: cas}
}

// Put stores the encoded message and returns its CID.
func (s *MessageStore) Put(ctx context.Context, msg *protocol.Message) (cid.Cid, error) {
	if s == nil || s.CAS == nil {
		return cid.Undef, ErrNoBackends
	}
	if err := message.VerifyMessage(msg); err != nil {
		return cid.Undef, fmt.Errorf("storage: refusing to archive unverified message: %w", err)
	}
	b, err := msg.MarshalBinary()
	if err != nil {
		return cid.Undef, err
	}
	return s.CAS.Put(ctx, b)
}

func (s *MessageStore) Get(ctx context.Context, id cid.Cid) (*protocol.Message, error) {
	if s == nil || s.CAS == nil {
		return nil, ErrNoBackends
	}
	b, err := s.CAS.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	msg := new(protocol.Message)
	if err := msg.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if err := message.VerifyMessage(msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return msg, nil
}

func (s *MessageStore) Has(ctx context.Context, id cid.Cid) (bool, error) {
	if s == nil || s.CAS == nil {
		return false, ErrNoBackends
	}
	return s.CAS.Has(ctx, id)
}
