// Package protocol holds the hub wire schema and its canonical protobuf codec.
//
// The types mirror the hub's protobuf definitions field for field. They are
// encoded with protowire directly so the package needs no protoc toolchain;
// the binary form is compatible with any protobuf implementation.
package protocol

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// MessageData is the unsigned envelope: type, author fid, protocol timestamp,
// network and exactly one body.
type MessageData struct {
	Type      MessageType
	FID       uint64
	Timestamp uint32
	Network   Network
	Body      Body
}

func (m *MessageData) encodeWire(e *encoder) {
	e.enum(1, int32(m.Type))
	e.uvarint(2, m.FID)
	e.uvarint(3, uint64(m.Timestamp))
	e.enum(4, int32(m.Network))
	switch {
	case BodyIsSet(m.Body):
		e.message(m.Body.bodyField(), m.Body)
	case m.Body != nil:
		e.fail(fmt.Errorf("body: %w", ErrNilMessage))
	}
}

func (m *MessageData) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeEnum(typ, b, &m.Type)
		case 2:
			return consumeUint64(typ, b, &m.FID)
		case 3:
			return consumeUint32(typ, b, &m.Timestamp)
		case 4:
			return consumeEnum(typ, b, &m.Network)
		}
		if body := newBody(num); body != nil {
			n, err := consumeMessage(typ, b, body)
			if err == nil {
				m.Body = body
			}
			return n, err
		}
		return skipField, nil
	})
}

// MarshalBinary returns the canonical encoding that is hashed and signed.
func (m *MessageData) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, ErrNilMessage
	}
	b, err := marshal(m)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode MessageData: %w", err)
	}
	return b, nil
}

func (m *MessageData) UnmarshalBinary(b []byte) error {
	*m = MessageData{}
	if err := m.decodeWire(b); err != nil {
		return fmt.Errorf("protocol: decode MessageData: %w", err)
	}
	return nil
}

// Message is a signed envelope ready for transmission.
//
// DataBytes is optional on the wire: when non-nil it carries the exact bytes
// that were hashed, and receivers should hash those instead of re-encoding Data.
type Message struct {
	Data            *MessageData
	Hash            []byte
	HashScheme      HashScheme
	Signature       []byte
	SignatureScheme SignatureScheme
	Signer          []byte
	DataBytes       []byte
}

func (m *Message) encodeWire(e *encoder) {
	if m.Data != nil {
		e.message(1, m.Data)
	}
	e.bytes(2, m.Hash)
	e.enum(3, int32(m.HashScheme))
	e.bytes(4, m.Signature)
	e.enum(5, int32(m.SignatureScheme))
	e.bytes(6, m.Signer)
	if m.DataBytes != nil {
		e.setBytes(7, m.DataBytes)
	}
}

func (m *Message) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			m.Data = new(MessageData)
			return consumeMessage(typ, b, m.Data)
		case 2:
			return consumeBytes(typ, b, &m.Hash)
		case 3:
			return consumeEnum(typ, b, &m.HashScheme)
		case 4:
			return consumeBytes(typ, b, &m.Signature)
		case 5:
			return consumeEnum(typ, b, &m.SignatureScheme)
		case 6:
			return consumeBytes(typ, b, &m.Signer)
		case 7:
			return consumeBytes(typ, b, &m.DataBytes)
		}
		return skipField, nil
	})
}

func (m *Message) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, ErrNilMessage
	}
	b, err := marshal(m)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode Message: %w", err)
	}
	return b, nil
}

func (m *Message) UnmarshalBinary(b []byte) error {
	*m = Message{}
	if err := m.decodeWire(b); err != nil {
		return fmt.Errorf("protocol: decode Message: %w", err)
	}
	return nil
}

type HubInfoRequest struct {
	DBStats bool
}

func (m *HubInfoRequest) encodeWire(e *encoder) {
	e.boolean(1, m.DBStats)
}

func (m *HubInfoRequest) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeBool(typ, b, &m.DBStats)
		}
		return skipField, nil
	})
}

func (m *HubInfoRequest) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, ErrNilMessage
	}
	return marshal(m)
}

func (m *HubInfoRequest) UnmarshalBinary(b []byte) error {
	*m = HubInfoRequest{}
	return m.decodeWire(b)
}

type DBStats struct {
	NumMessages    uint64
	NumFIDEvents   uint64
	NumFnameEvents uint64
}

func (m *DBStats) encodeWire(e *encoder) {
	e.uvarint(1, m.NumMessages)
	e.uvarint(2, m.NumFIDEvents)
	e.uvarint(3, m.NumFnameEvents)
}

func (m *DBStats) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeUint64(typ, b, &m.NumMessages)
		case 2:
			return consumeUint64(typ, b, &m.NumFIDEvents)
		case 3:
			return consumeUint64(typ, b, &m.NumFnameEvents)
		}
		return skipField, nil
	})
}

type HubInfoResponse struct {
	Version        string
	IsSyncing      bool
	Nickname       string
	RootHash       string
	DBStats        *DBStats
	PeerID         string
	HubOperatorFID uint64
}

func (m *HubInfoResponse) encodeWire(e *encoder) {
	e.str(1, m.Version)
	e.boolean(2, m.IsSyncing)
	e.str(3, m.Nickname)
	e.str(4, m.RootHash)
	if m.DBStats != nil {
		e.message(5, m.DBStats)
	}
	e.str(6, m.PeerID)
	e.uvarint(7, m.HubOperatorFID)
}

func (m *HubInfoResponse) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Version)
		case 2:
			return consumeBool(typ, b, &m.IsSyncing)
		case 3:
			return consumeString(typ, b, &m.Nickname)
		case 4:
			return consumeString(typ, b, &m.RootHash)
		case 5:
			m.DBStats = new(DBStats)
			return consumeMessage(typ, b, m.DBStats)
		case 6:
			return consumeString(typ, b, &m.PeerID)
		case 7:
			return consumeUint64(typ, b, &m.HubOperatorFID)
		}
		return skipField, nil
	})
}

func (m *HubInfoResponse) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, ErrNilMessage
	}
	return marshal(m)
}

func (m *HubInfoResponse) UnmarshalBinary(b []byte) error {
	*m = HubInfoResponse{}
	return m.decodeWire(b)
}
