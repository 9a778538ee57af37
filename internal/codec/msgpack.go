package codec

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgPack is the default binary codec using MessagePack encoding.
type MsgPack struct{}

// Encode serializes v to MessagePack into w.
func (MsgPack) Encode(w io.Writer, v any) error {
	return msgpack.NewEncoder(w).Encode(v)
}

// Decode deserializes MessagePack from r into v.
func (MsgPack) Decode(r io.Reader, v any) error {
	return msgpack.NewDecoder(r).Decode(v)
}

// Name returns "msgpack".
func (MsgPack) Name() string { return "msgpack" }

// Default is the codec used for non-markup files when none is configured.
var Default Codec = MsgPack{}
