package hubclient

import (
	"encoding"
	"fmt"
)

// Codec carries protocol types over gRPC using their canonical binary
// encoding. It is forced per call rather than registered globally; its name
// keeps the content subtype "proto" so hubs see ordinary protobuf traffic.
type Codec struct{}

func (Codec) Name() string { return "proto" }

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(encoding.BinaryMarshaler)
	if !ok {
		return nil, fmt.Errorf("hubclient: cannot marshal %T", v)
	}
	return m.MarshalBinary()
}

func (Codec) Unmarshal(data []byte, v any) error {
	u, ok := v.(encoding.BinaryUnmarshaler)
	if !ok {
		return fmt.Errorf("hubclient: cannot unmarshal into %T", v)
	}
	return u.UnmarshalBinary(data)
}
