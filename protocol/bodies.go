package protocol

import (
	"reflect"

	"google.golang.org/protobuf/encoding/protowire"
)

// Body is the MessageData body union. Exactly one variant is carried per
// message; the set of implementations is closed to this package.
type Body interface {
	wireMessage
	bodyField() protowire.Number
}

// BodyIsSet reports whether b holds a non-nil variant.
func BodyIsSet(b Body) bool {
	if b == nil {
		return false
	}
	v := reflect.ValueOf(b)
	return !(v.Kind() == reflect.Pointer && v.IsNil())
}

// CastID references a cast by author fid and message hash.
type CastID struct {
	FID  uint64
	Hash []byte
}

func (c *CastID) encodeWire(e *encoder) {
	e.uvarint(1, c.FID)
	e.bytes(2, c.Hash)
}

func (c *CastID) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeUint64(typ, b, &c.FID)
		case 2:
			return consumeBytes(typ, b, &c.Hash)
		}
		return skipField, nil
	})
}

// Embed is a oneof of URL or CastID. CastID wins when set; an empty URL with
// no CastID leaves the oneof unset.
type Embed struct {
	URL    string
	CastID *CastID
}

func (m *Embed) encodeWire(e *encoder) {
	if m.CastID != nil && m.URL != "" {
		e.fail(ErrOneofConflict)
	}
	if m.URL != "" {
		e.setStr(1, m.URL)
	}
	if m.CastID != nil {
		e.message(2, m.CastID)
	}
}

func (m *Embed) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			m.CastID = nil
			return consumeString(typ, b, &m.URL)
		case 2:
			m.URL = ""
			m.CastID = new(CastID)
			return consumeMessage(typ, b, m.CastID)
		}
		return skipField, nil
	})
}

// CastAddBody publishes a new cast. ParentCastID and ParentURL form the
// "parent" oneof; at most one may be set. The oneof is encoded at tag 3's
// position whichever member is set.
type CastAddBody struct {
	EmbedsDeprecated  []string
	Mentions          []uint64
	ParentCastID      *CastID
	Text              string
	MentionsPositions []uint32
	Embeds            []*Embed
	ParentURL         string
}

func (*CastAddBody) bodyField() protowire.Number { return 5 }

func (m *CastAddBody) encodeWire(e *encoder) {
	if m.ParentCastID != nil && m.ParentURL != "" {
		e.fail(ErrOneofConflict)
	}
	e.strs(1, m.EmbedsDeprecated)
	e.packed64(2, m.Mentions)
	// The parent oneof is written as a unit at its lowest tag (3), so
	// parent_url (7) precedes text.
	if m.ParentCastID != nil {
		e.message(3, m.ParentCastID)
	} else if m.ParentURL != "" {
		e.setStr(7, m.ParentURL)
	}
	e.str(4, m.Text)
	e.packed32(5, m.MentionsPositions)
	for _, em := range m.Embeds {
		if em == nil {
			em = &Embed{}
		}
		e.message(6, em)
	}
}

func (m *CastAddBody) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			var s string
			n, err := consumeString(typ, b, &s)
			if err == nil {
				m.EmbedsDeprecated = append(m.EmbedsDeprecated, s)
			}
			return n, err
		case 2:
			return consumeRepeated(typ, b, func(v uint64) { m.Mentions = append(m.Mentions, v) })
		case 3:
			m.ParentURL = ""
			m.ParentCastID = new(CastID)
			return consumeMessage(typ, b, m.ParentCastID)
		case 4:
			return consumeString(typ, b, &m.Text)
		case 5:
			return consumeRepeated(typ, b, func(v uint64) { m.MentionsPositions = append(m.MentionsPositions, uint32(v)) })
		case 6:
			em := new(Embed)
			n, err := consumeMessage(typ, b, em)
			if err == nil {
				m.Embeds = append(m.Embeds, em)
			}
			return n, err
		case 7:
			m.ParentCastID = nil
			return consumeString(typ, b, &m.ParentURL)
		}
		return skipField, nil
	})
}

type CastRemoveBody struct {
	TargetHash []byte
}

func (*CastRemoveBody) bodyField() protowire.Number { return 6 }

func (m *CastRemoveBody) encodeWire(e *encoder) {
	e.bytes(1, m.TargetHash)
}

func (m *CastRemoveBody) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeBytes(typ, b, &m.TargetHash)
		}
		return skipField, nil
	})
}

// ReactionBody targets either a cast or a URL (the "target" oneof).
type ReactionBody struct {
	Type         ReactionType
	TargetCastID *CastID
	TargetURL    string
}

func (*ReactionBody) bodyField() protowire.Number { return 7 }

func (m *ReactionBody) encodeWire(e *encoder) {
	if m.TargetCastID != nil && m.TargetURL != "" {
		e.fail(ErrOneofConflict)
	}
	e.enum(1, int32(m.Type))
	if m.TargetCastID != nil {
		e.message(2, m.TargetCastID)
	}
	if m.TargetURL != "" {
		e.setStr(3, m.TargetURL)
	}
}

func (m *ReactionBody) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeEnum(typ, b, &m.Type)
		case 2:
			m.TargetURL = ""
			m.TargetCastID = new(CastID)
			return consumeMessage(typ, b, m.TargetCastID)
		case 3:
			m.TargetCastID = nil
			return consumeString(typ, b, &m.TargetURL)
		}
		return skipField, nil
	})
}

type VerificationAddEthAddressBody struct {
	Address      []byte
	EthSignature []byte
	BlockHash    []byte
}

func (*VerificationAddEthAddressBody) bodyField() protowire.Number { return 9 }

func (m *VerificationAddEthAddressBody) encodeWire(e *encoder) {
	e.bytes(1, m.Address)
	e.bytes(2, m.EthSignature)
	e.bytes(3, m.BlockHash)
}

func (m *VerificationAddEthAddressBody) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeBytes(typ, b, &m.Address)
		case 2:
			return consumeBytes(typ, b, &m.EthSignature)
		case 3:
			return consumeBytes(typ, b, &m.BlockHash)
		}
		return skipField, nil
	})
}

type VerificationRemoveBody struct {
	Address []byte
}

func (*VerificationRemoveBody) bodyField() protowire.Number { return 10 }

func (m *VerificationRemoveBody) encodeWire(e *encoder) {
	e.bytes(1, m.Address)
}

func (m *VerificationRemoveBody) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeBytes(typ, b, &m.Address)
		}
		return skipField, nil
	})
}

// SignerAddBody authorises a new signer key. Name is optional on the wire.
type SignerAddBody struct {
	Signer []byte
	Name   *string
}

func (*SignerAddBody) bodyField() protowire.Number { return 11 }

func (m *SignerAddBody) encodeWire(e *encoder) {
	e.bytes(1, m.Signer)
	if m.Name != nil {
		e.setStr(2, *m.Name)
	}
}

func (m *SignerAddBody) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeBytes(typ, b, &m.Signer)
		case 2:
			m.Name = new(string)
			return consumeString(typ, b, m.Name)
		}
		return skipField, nil
	})
}

type UserDataBody struct {
	Type  UserDataType
	Value string
}

func (*UserDataBody) bodyField() protowire.Number { return 12 }

func (m *UserDataBody) encodeWire(e *encoder) {
	e.enum(1, int32(m.Type))
	e.str(2, m.Value)
}

func (m *UserDataBody) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeEnum(typ, b, &m.Type)
		case 2:
			return consumeString(typ, b, &m.Value)
		}
		return skipField, nil
	})
}

type SignerRemoveBody struct {
	Signer []byte
}

func (*SignerRemoveBody) bodyField() protowire.Number { return 13 }

func (m *SignerRemoveBody) encodeWire(e *encoder) {
	e.bytes(1, m.Signer)
}

func (m *SignerRemoveBody) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeBytes(typ, b, &m.Signer)
		}
		return skipField, nil
	})
}

// LinkBody is a social-graph edge such as "follow". TargetFID is the only
// member of the "target" oneof and is treated as unset when zero.
type LinkBody struct {
	Type             string
	DisplayTimestamp *uint32
	TargetFID        uint64
}

func (*LinkBody) bodyField() protowire.Number { return 14 }

func (m *LinkBody) encodeWire(e *encoder) {
	e.str(1, m.Type)
	if m.DisplayTimestamp != nil {
		e.setUvarint(2, uint64(*m.DisplayTimestamp))
	}
	e.uvarint(3, m.TargetFID)
}

func (m *LinkBody) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Type)
		case 2:
			m.DisplayTimestamp = new(uint32)
			return consumeUint32(typ, b, m.DisplayTimestamp)
		case 3:
			return consumeUint64(typ, b, &m.TargetFID)
		}
		return skipField, nil
	})
}

// UserNameProof binds a name to an owner address and fid.
type UserNameProof struct {
	Timestamp uint64
	Name      []byte
	Owner     []byte
	Signature []byte
	FID       uint64
	Type      UserNameType
}

func (*UserNameProof) bodyField() protowire.Number { return 15 }

func (m *UserNameProof) encodeWire(e *encoder) {
	e.uvarint(1, m.Timestamp)
	e.bytes(2, m.Name)
	e.bytes(3, m.Owner)
	e.bytes(4, m.Signature)
	e.uvarint(5, m.FID)
	e.enum(6, int32(m.Type))
}

func (m *UserNameProof) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeUint64(typ, b, &m.Timestamp)
		case 2:
			return consumeBytes(typ, b, &m.Name)
		case 3:
			return consumeBytes(typ, b, &m.Owner)
		case 4:
			return consumeBytes(typ, b, &m.Signature)
		case 5:
			return consumeUint64(typ, b, &m.FID)
		case 6:
			return consumeEnum(typ, b, &m.Type)
		}
		return skipField, nil
	})
}

// newBody returns an empty body for a MessageData field number, or nil.
func newBody(num protowire.Number) Body {
	switch num {
	case 5:
		return new(CastAddBody)
	case 6:
		return new(CastRemoveBody)
	case 7:
		return new(ReactionBody)
	case 9:
		return new(VerificationAddEthAddressBody)
	case 10:
		return new(VerificationRemoveBody)
	case 11:
		return new(SignerAddBody)
	case 12:
		return new(UserDataBody)
	case 13:
		return new(SignerRemoveBody)
	case 14:
		return new(LinkBody)
	case 15:
		return new(UserNameProof)
	}
	return nil
}
