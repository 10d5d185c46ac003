package printctlpb

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodec marshals RPC messages as JSON instead of wire-format
// protobuf. Registered under the "proto" name so it replaces grpc-go's
// built-in codec without requiring callers to opt in, since this package
// stands in for protoc-generated, protobuf-wire messages that the
// toolchain here cannot produce.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return "proto" }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
