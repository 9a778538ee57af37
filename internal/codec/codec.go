// Package codec provides the stream encoders used to persist values to disk.
package codec

import "io"

// Codec encodes and decodes values to and from a file stream.
type Codec interface {
	// Encode serializes v into w.
	Encode(w io.Writer, v any) error
	// Decode deserializes the content of r into v (must be a pointer).
	Decode(r io.Reader, v any) error
	// Name returns the codec identifier used for diagnostics.
	Name() string
}

// ByName returns the built-in codec registered under name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "msgpack":
		return MsgPack{}, true
	case "json":
		return JSON{}, true
	case "gob":
		return Gob{}, true
	case "xml":
		return XML{}, true
	}
	return nil, false
}
