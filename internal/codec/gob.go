package codec

import (
	"encoding/gob"
	"io"
)

// Gob encodes values with encoding/gob. Interface-typed fields must be
// registered with gob.Register by the caller.
type Gob struct{}

// Encode serializes v to gob into w.
func (Gob) Encode(w io.Writer, v any) error {
	return gob.NewEncoder(w).Encode(v)
}

// Decode deserializes gob data from r into v.
func (Gob) Decode(r io.Reader, v any) error {
	return gob.NewDecoder(r).Decode(v)
}

// Name returns "gob".
func (Gob) Name() string { return "gob" }
