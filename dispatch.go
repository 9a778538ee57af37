package persist

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/AndrewDonelson/persist/internal/codec"
	"github.com/AndrewDonelson/persist/tabular"
	"github.com/spf13/afero"
)

// variant is the closed set of value shapes the dispatcher distinguishes.
type variant int

const (
	payloadVariant variant = iota
	tableVariant
	dataSetVariant
)

// classify reports which variant T is. Tables and datasets write themselves
// to markup files; every other type goes through a codec.
func classify[T any]() variant {
	var zero T
	return classifyValue(zero)
}

// classifyValue reports the variant of the dynamic type of v, so a table
// passed as an interface is still written as a table.
func classifyValue(v any) variant {
	switch v.(type) {
	case *tabular.Table:
		return tableVariant
	case *tabular.DataSet:
		return dataSetVariant
	}
	return payloadVariant
}

// dispatcher picks a codec from the file extension and performs a single
// read or write. It takes no locks.
type dispatcher struct {
	fs        afero.Fs
	markupExt string // lower case, with leading dot
	flag      int
	perm      os.FileMode
	markup    codec.Codec
	binary    codec.Codec
}

func (d *dispatcher) isMarkup(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), d.markupExt)
}

func (d *dispatcher) format(path string) string {
	if d.isMarkup(path) {
		return d.markup.Name()
	}
	return d.binary.Name()
}

// encode writes v to path. An absent value writes nothing.
func encode[T any](d *dispatcher, path string, v T) error {
	if err := validatePath(path); err != nil {
		return err
	}
	if isAbsent(v) {
		return nil
	}
	if !d.isMarkup(path) {
		return d.write(path, func(w io.Writer) error { return d.binary.Encode(w, v) })
	}
	switch classifyValue(v) {
	case tableVariant:
		t := any(v).(*tabular.Table)
		if t.Name == "" {
			t.Name = path
		}
		if t.DataSet() == nil {
			if err := tabular.NewDataSet("").Add(t); err != nil {
				return err
			}
		}
		return d.write(path, func(w io.Writer) error { return t.WriteXML(w, true) })
	case dataSetVariant:
		ds := any(v).(*tabular.DataSet)
		return d.write(path, func(w io.Writer) error { return ds.WriteXML(w, false) })
	}
	return d.write(path, func(w io.Writer) error { return d.markup.Encode(w, v) })
}

// write renders the payload in memory before opening path, so a value that
// fails to encode leaves the existing file untouched.
func (d *dispatcher) write(path string, fn func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return err
	}
	f, err := d.fs.OpenFile(path, d.flag, d.perm)
	if err != nil {
		return err
	}
	if _, err := buf.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// decode reads path into a T. A missing file yields the zero value and a
// zero time. An empty file yields the zero value and its modification time.
// The time is taken before the file is opened; callers that need the two
// to agree hold the path's read lock.
func decode[T any](d *dispatcher, path string) (T, time.Time, error) {
	var zero T
	if err := validatePath(path); err != nil {
		return zero, time.Time{}, err
	}
	info, err := d.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return zero, time.Time{}, nil
		}
		return zero, time.Time{}, err
	}
	modified := info.ModTime()
	if info.Size() == 0 {
		return zero, modified, nil
	}

	f, err := d.fs.Open(path)
	if err != nil {
		return zero, modified, err
	}
	defer f.Close()
	r := bufio.NewReader(f)

	if !d.isMarkup(path) {
		v, err := decodeBinary[T](d.binary, r)
		return v, modified, err
	}
	switch classify[T]() {
	case tableVariant:
		t, err := tabular.ReadTableXML(r)
		if err != nil {
			return zero, modified, err
		}
		return any(t).(T), modified, nil
	case dataSetVariant:
		ds, err := tabular.ReadDataSetXML(r)
		if err != nil {
			return zero, modified, err
		}
		return any(ds).(T), modified, nil
	}
	v, err := decodeMarkup[T](d.markup, r)
	return v, modified, err
}

// decodeMarkup coalesces an absent result to the zero value.
func decodeMarkup[T any](c codec.Codec, r io.Reader) (T, error) {
	var v, zero T
	if err := c.Decode(r, &v); err != nil {
		return zero, err
	}
	if isAbsent(v) {
		return zero, nil
	}
	return v, nil
}

// decodeBinary returns whatever the codec produced, absent or not.
func decodeBinary[T any](c codec.Codec, r io.Reader) (T, error) {
	var v T
	if err := c.Decode(r, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// isAbsent reports whether v holds no value: a nil interface, pointer, map,
// slice, channel or func.
func isAbsent(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}
