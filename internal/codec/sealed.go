package codec

import (
	"bytes"
	"io"
)

// Cipher seals and opens encoded payloads.
type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// Sealed wraps another codec and encrypts its output as a single block.
type Sealed struct {
	Inner  Codec
	Cipher Cipher
}

// Encode encodes v with the inner codec and writes the sealed bytes to w.
func (s Sealed) Encode(w io.Writer, v any) error {
	var buf bytes.Buffer
	if err := s.Inner.Encode(&buf, v); err != nil {
		return err
	}
	out, err := s.Cipher.Encrypt(buf.Bytes())
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// Decode opens the sealed content of r and decodes it with the inner codec.
func (s Sealed) Decode(r io.Reader, v any) error {
	sealed, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	plain, err := s.Cipher.Decrypt(sealed)
	if err != nil {
		return err
	}
	return s.Inner.Decode(bytes.NewReader(plain), v)
}

// Name returns the inner codec name with a "+sealed" suffix.
func (s Sealed) Name() string { return s.Inner.Name() + "+sealed" }
