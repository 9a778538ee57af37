package codec_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/AndrewDonelson/persist/internal/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id" msgpack:"id" xml:"id"`
	Name string `json:"name" msgpack:"name" xml:"name"`
}

func roundTrip(t *testing.T, c codec.Codec, in item) item {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf, in))
	var got item
	require.NoError(t, c.Decode(&buf, &got))
	return got
}

func TestCodecs_RoundTrip(t *testing.T) {
	orig := item{ID: 42, Name: "pack"}
	for _, c := range []codec.Codec{codec.JSON{}, codec.MsgPack{}, codec.Gob{}, codec.XML{}} {
		t.Run(c.Name(), func(t *testing.T) {
			assert.Equal(t, orig, roundTrip(t, c, orig))
		})
	}
}

func TestXML_WritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, codec.XML{}.Encode(&buf, item{ID: 1, Name: "x"}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("<?xml")))
	assert.Contains(t, buf.String(), "<name>x</name>")
}

func TestXML_DecodeMalformed(t *testing.T) {
	var got item
	err := codec.XML{}.Decode(bytes.NewBufferString("<item><id>1</id>"), &got)
	assert.Error(t, err)
}

func TestByName(t *testing.T) {
	for _, name := range []string{"msgpack", "json", "gob", "xml"} {
		c, ok := codec.ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}
	_, ok := codec.ByName("yaml")
	assert.False(t, ok)
}

// xorCipher flips every byte; enough to prove Sealed routes through the cipher.
type xorCipher struct{ fail bool }

func (c xorCipher) Encrypt(p []byte) ([]byte, error) { return c.flip(p) }
func (c xorCipher) Decrypt(p []byte) ([]byte, error) { return c.flip(p) }

func (c xorCipher) flip(p []byte) ([]byte, error) {
	if c.fail {
		return nil, errors.New("cipher failure")
	}
	out := make([]byte, len(p))
	for i, b := range p {
		out[i] = b ^ 0xFF
	}
	return out, nil
}

func TestSealed_RoundTrip(t *testing.T) {
	c := codec.Sealed{Inner: codec.MsgPack{}, Cipher: xorCipher{}}
	orig := item{ID: 7, Name: "secret"}
	assert.Equal(t, orig, roundTrip(t, c, orig))
	assert.Equal(t, "msgpack+sealed", c.Name())

	var plain, sealed bytes.Buffer
	require.NoError(t, codec.MsgPack{}.Encode(&plain, orig))
	require.NoError(t, c.Encode(&sealed, orig))
	assert.NotEqual(t, plain.Bytes(), sealed.Bytes())
}

func TestSealed_CipherError(t *testing.T) {
	c := codec.Sealed{Inner: codec.MsgPack{}, Cipher: xorCipher{fail: true}}
	var buf bytes.Buffer
	assert.Error(t, c.Encode(&buf, item{ID: 1}))
	var got item
	assert.Error(t, c.Decode(bytes.NewBufferString("abc"), &got))
}

func TestXML_RejectsTextXMLCannotHold(t *testing.T) {
	type note struct {
		Title string   `xml:"title"`
		Tags  []string `xml:"tag"`
		Body  *string  `xml:"body"`
	}
	body := "ok\x1f"
	for name, v := range map[string]any{
		"field":        item{ID: 1, Name: "a\x01b"},
		"slice":        note{Title: "t", Tags: []string{"fine", "\x00"}},
		"pointer":      &note{Title: "t", Body: &body},
		"bad utf8":     item{Name: "a\xffb"},
		"noncharacter": item{Name: "\uFFFE"},
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := codec.XML{}.Encode(&buf, v)
			assert.ErrorIs(t, err, codec.ErrInvalidText)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestXML_KeepsLegalText(t *testing.T) {
	orig := item{ID: 7, Name: "tab\tline\nend \U0001F600"}
	assert.Equal(t, orig, roundTrip(t, codec.XML{}, orig))

	type hidden struct {
		Name   string `xml:"name"`
		Skip   string `xml:"-"`
		secret string
	}
	var buf bytes.Buffer
	assert.NoError(t, codec.XML{}.Encode(&buf, hidden{Name: "x", Skip: "\x01", secret: "\x02"}))
}
