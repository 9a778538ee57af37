// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// json.go — JSON codec backed by goccy/go-json; selectable as the binary-slot
// codec when human-readable payloads are preferred over MessagePack.

package codec

import (
	"io"

	json "github.com/goccy/go-json"
)

// JSON encodes values as indented JSON documents.
type JSON struct{}

// Encode writes v to w as JSON.
func (JSON) Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Decode reads a JSON document from r into v.
func (JSON) Decode(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

// Name returns "json".
func (JSON) Name() string { return "json" }
