package protocol

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

var (
	// ErrWireType is returned when a known field arrives with an unexpected wire type.
	ErrWireType = errors.New("protocol: unexpected wire type")
	// ErrInvalidUTF8 is returned for string fields that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("protocol: string field is not valid UTF-8")
	// ErrOneofConflict is returned when more than one member of a oneof is set.
	ErrOneofConflict = errors.New("protocol: more than one oneof member set")
	// ErrNilMessage is returned when marshaling a nil message.
	ErrNilMessage = errors.New("protocol: nil message")
)

// wireMessage is implemented by every schema type. Encoding emits fields in
// ascending field-number order so the output is canonical.
type wireMessage interface {
	encodeWire(e *encoder)
	decodeWire(b []byte) error
}

func marshal(m wireMessage) ([]byte, error) {
	var e encoder
	m.encodeWire(&e)
	if e.err != nil {
		return nil, e.err
	}
	if e.buf == nil {
		return []byte{}, nil
	}
	return e.buf, nil
}

// encoder accumulates the first error and keeps appending so call sites stay linear.
type encoder struct {
	buf []byte
	err error
}

func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) uvarint(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	e.setUvarint(num, v)
}

// setUvarint emits v even when zero (oneof and optional members).
func (e *encoder) setUvarint(num protowire.Number, v uint64) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
}

func (e *encoder) enum(num protowire.Number, v int32) {
	e.uvarint(num, uint64(int64(v)))
}

func (e *encoder) boolean(num protowire.Number, v bool) {
	if v {
		e.setUvarint(num, 1)
	}
}

func (e *encoder) bytes(num protowire.Number, v []byte) {
	if len(v) == 0 {
		return
	}
	e.setBytes(num, v)
}

func (e *encoder) setBytes(num protowire.Number, v []byte) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, v)
}

func (e *encoder) str(num protowire.Number, v string) {
	if v == "" {
		return
	}
	e.setStr(num, v)
}

func (e *encoder) setStr(num protowire.Number, v string) {
	if !utf8.ValidString(v) {
		e.fail(fmt.Errorf("field %d: %w", num, ErrInvalidUTF8))
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, v)
}

func (e *encoder) strs(num protowire.Number, vs []string) {
	for _, v := range vs {
		e.setStr(num, v)
	}
}

func (e *encoder) packed64(num protowire.Number, vs []uint64) {
	if len(vs) == 0 {
		return
	}
	var inner []byte
	for _, v := range vs {
		inner = protowire.AppendVarint(inner, v)
	}
	e.setBytes(num, inner)
}

func (e *encoder) packed32(num protowire.Number, vs []uint32) {
	if len(vs) == 0 {
		return
	}
	var inner []byte
	for _, v := range vs {
		inner = protowire.AppendVarint(inner, uint64(v))
	}
	e.setBytes(num, inner)
}

// message emits a set submessage, including an empty one.
func (e *encoder) message(num protowire.Number, m wireMessage) {
	var sub encoder
	m.encodeWire(&sub)
	if sub.err != nil {
		e.fail(sub.err)
	}
	e.setBytes(num, sub.buf)
}

// skipField tells decodeFields the handler did not recognise the field.
const skipField = 0

type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

func decodeFields(b []byte, field fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m, err := field(num, typ, b)
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		if m == skipField {
			m = protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return protowire.ParseError(m)
			}
		}
		b = b[m:]
	}
	return nil
}

func consumeVarint(typ protowire.Type, b []byte) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, ErrWireType
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeUint64(typ protowire.Type, b []byte, out *uint64) (int, error) {
	v, n, err := consumeVarint(typ, b)
	if err != nil {
		return 0, err
	}
	*out = v
	return n, nil
}

func consumeUint32(typ protowire.Type, b []byte, out *uint32) (int, error) {
	v, n, err := consumeVarint(typ, b)
	if err != nil {
		return 0, err
	}
	*out = uint32(v)
	return n, nil
}

func consumeEnum[E ~int32](typ protowire.Type, b []byte, out *E) (int, error) {
	v, n, err := consumeVarint(typ, b)
	if err != nil {
		return 0, err
	}
	*out = E(int32(v))
	return n, nil
}

func consumeBool(typ protowire.Type, b []byte, out *bool) (int, error) {
	v, n, err := consumeVarint(typ, b)
	if err != nil {
		return 0, err
	}
	*out = v != 0
	return n, nil
}

func consumeRaw(typ protowire.Type, b []byte) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, ErrWireType
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

// consumeBytes copies so decoded messages never alias the input buffer.
func consumeBytes(typ protowire.Type, b []byte, out *[]byte) (int, error) {
	v, n, err := consumeRaw(typ, b)
	if err != nil {
		return 0, err
	}
	*out = append([]byte{}, v...)
	return n, nil
}

func consumeString(typ protowire.Type, b []byte, out *string) (int, error) {
	v, n, err := consumeRaw(typ, b)
	if err != nil {
		return 0, err
	}
	if !utf8.Valid(v) {
		return 0, ErrInvalidUTF8
	}
	*out = string(v)
	return n, nil
}

func consumeMessage(typ protowire.Type, b []byte, m wireMessage) (int, error) {
	v, n, err := consumeRaw(typ, b)
	if err != nil {
		return 0, err
	}
	if err := m.decodeWire(v); err != nil {
		return 0, err
	}
	return n, nil
}

// consumeRepeated accepts both packed and unpacked encodings.
func consumeRepeated(typ protowire.Type, b []byte, add func(uint64)) (int, error) {
	switch typ {
	case protowire.VarintType:
		v, n, err := consumeVarint(typ, b)
		if err != nil {
			return 0, err
		}
		add(v)
		return n, nil
	case protowire.BytesType:
		inner, n, err := consumeRaw(typ, b)
		if err != nil {
			return 0, err
		}
		for len(inner) > 0 {
			v, m := protowire.ConsumeVarint(inner)
			if m < 0 {
				return 0, protowire.ParseError(m)
			}
			add(v)
			inner = inner[m:]
		}
		return n, nil
	default:
		return 0, ErrWireType
	}
}
