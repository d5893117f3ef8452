package proto

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	_ "google.golang.org/grpc/encoding/proto"
	"google.golang.org/protobuf/proto"
)

// CodecName is the gRPC content subtype ("application/grpc+proto").
const CodecName = "proto"

// wireMessage is implemented by the MediaService messages, which encode
// themselves with protowire.
type wireMessage interface {
	marshalWire() []byte
	unmarshalWire(b []byte) error
}

// codec replaces the default protobuf codec. MediaService messages are
// encoded field by field; generated proto.Message values go through
// proto.Marshal as before.
type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case wireMessage:
		return m.marshalWire(), nil
	case proto.Message:
		return proto.Marshal(m)
	default:
		return nil, fmt.Errorf("proto: cannot marshal %T", v)
	}
}

func (codec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case wireMessage:
		return m.unmarshalWire(data)
	case proto.Message:
		return proto.Unmarshal(data, m)
	default:
		return fmt.Errorf("proto: cannot unmarshal into %T", v)
	}
}

func (codec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(codec{})
}
