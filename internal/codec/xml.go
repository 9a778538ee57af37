package codec

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"reflect"
	"unicode/utf8"
)

// ErrInvalidText is returned by XML.Encode when a string holds characters
// that XML 1.0 cannot represent.
var ErrInvalidText = errors.New("codec: text cannot be represented in XML")

// XML is the structured-markup codec selected for files with the markup
// extension.
type XML struct{}

// Encode writes an XML declaration followed by the indented encoding of v.
func (XML) Encode(w io.Writer, v any) error {
	if err := checkText(reflect.ValueOf(v), map[uintptr]bool{}); err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Decode reads the first XML element from r into v.
func (XML) Decode(r io.Reader, v any) error {
	return xml.NewDecoder(r).Decode(v)
}

// Name returns "xml".
func (XML) Name() string { return "xml" }

// checkText walks the strings encoding/xml would write for v and rejects
// any that it would otherwise replace with U+FFFD.
func checkText(v reflect.Value, seen map[uintptr]bool) error {
	switch v.Kind() {
	case reflect.String:
		return validText(v.String())
	case reflect.Pointer:
		if v.IsNil() || seen[v.Pointer()] {
			return nil
		}
		seen[v.Pointer()] = true
		return checkText(v.Elem(), seen)
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return checkText(v.Elem(), seen)
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return validText(string(v.Bytes()))
		}
		fallthrough
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := checkText(v.Index(i), seen); err != nil {
				return err
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if (!f.IsExported() && !f.Anonymous) || f.Tag.Get("xml") == "-" {
				continue
			}
			if err := checkText(v.Field(i), seen); err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
		}
	}
	return nil
}

func validText(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: invalid UTF-8 in %q", ErrInvalidText, s)
	}
	for _, r := range s {
		if !(r == 0x09 || r == 0x0A || r == 0x0D ||
			r >= 0x20 && r <= 0xD7FF ||
			r >= 0xE000 && r <= 0xFFFD ||
			r >= 0x10000 && r <= 0x10FFFF) {
			return fmt.Errorf("%w: %U in %q", ErrInvalidText, r, s)
		}
	}
	return nil
}
