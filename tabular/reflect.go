// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// reflect.go — struct introspection for tables: Go field type → ColumnType
// mapping, column derivation from `tabular` struct tags, embedded struct
// flattening, snake_case naming, and the FromStructs/ToStructs converters.

package tabular

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// ErrNotStruct is returned when a converter is given a type that is not a
// struct or a pointer to one.
var ErrNotStruct = errors.New("tabular: element type must be a struct or pointer to struct")

// fieldColumn binds a struct field to a column.
type fieldColumn struct {
	Column
	index []int
}

var timeType = reflect.TypeOf(time.Time{})

// structColumns derives the columns of struct type t. Fields tagged
// `tabular:"-"` and unexported fields are skipped; `tabular:"name"` renames
// the column; otherwise the field name is converted to snake_case.
func structColumns(t reflect.Type) ([]fieldColumn, error) {
	var cols []fieldColumn
	if err := flattenStruct(t, nil, &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

func flattenStruct(t reflect.Type, parent []int, cols *[]fieldColumn) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(append([]int(nil), parent...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			if err := flattenStruct(f.Type, index, cols); err != nil {
				return err
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		tag := strings.TrimSpace(f.Tag.Get("tabular"))
		if tag == "-" {
			continue
		}
		typ, ok := goTypeToColumn(f.Type)
		if !ok {
			return fmt.Errorf("%w: field %s has type %s", ErrTypeMismatch, f.Name, f.Type)
		}
		name := tag
		if name == "" {
			name = ToSnakeCase(f.Name)
		}
		*cols = append(*cols, fieldColumn{Column: Column{Name: name, Type: typ}, index: index})
	}
	return nil
}

// goTypeToColumn maps a Go field type to the column type that stores it.
func goTypeToColumn(t reflect.Type) (ColumnType, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return String, true
	case reflect.Bool:
		return Bool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int64, true
	case reflect.Float32, reflect.Float64:
		return Float64, true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return Bytes, true
		}
	case reflect.Struct:
		if t == timeType {
			return DateTime, true
		}
	}
	return 0, false
}

// ToSnakeCase converts CamelCase to snake_case.
func ToSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + 32)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func elemStruct[T any]() (reflect.Type, bool, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	ptr := false
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		ptr = true
	}
	if t.Kind() != reflect.Struct {
		return nil, false, ErrNotStruct
	}
	return t, ptr, nil
}

// FromStructs builds a table called name with one column per struct field
// and one row per item. Nil pointer fields become null cells; nil items are
// skipped.
func FromStructs[T any](name string, items []T) (*Table, error) {
	st, _, err := elemStruct[T]()
	if err != nil {
		return nil, err
	}
	cols, err := structColumns(st)
	if err != nil {
		return nil, err
	}
	t := NewTable(name)
	for _, c := range cols {
		if err := t.AddColumn(c.Name, c.Type); err != nil {
			return nil, err
		}
	}
	for _, item := range items {
		v := reflect.ValueOf(item)
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				continue
			}
			v = v.Elem()
		}
		vals := make([]any, len(cols))
		for i, c := range cols {
			vals[i] = fieldValue(v.FieldByIndex(c.index))
		}
		if _, err := t.AddRow(vals...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func fieldValue(fv reflect.Value) any {
	for fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return nil
		}
		fv = fv.Elem()
	}
	return fv.Interface()
}

// ToStructs converts the rows of t into values of T, matching columns to
// fields by the same naming rule as FromStructs. Columns without a field
// and fields without a column are ignored.
func ToStructs[T any](t *Table) ([]T, error) {
	if t == nil {
		return nil, ErrNilTable
	}
	st, ptr, err := elemStruct[T]()
	if err != nil {
		return nil, err
	}
	cols, err := structColumns(st)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(t.rows))
	for _, r := range t.rows {
		sv := reflect.New(st).Elem()
		for _, c := range cols {
			ord, ok := t.index[c.Name]
			if !ok {
				continue
			}
			if err := setField(sv.FieldByIndex(c.index), r.values[ord], c.Type); err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", len(out), c.Name, err)
			}
		}
		if ptr {
			out = append(out, sv.Addr().Interface().(T))
		} else {
			out = append(out, sv.Interface().(T))
		}
	}
	return out, nil
}

func setField(fv reflect.Value, val any, typ ColumnType) error {
	if val == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	// Cells read from untyped documents hold strings.
	val, err := normalize(val, typ)
	if err != nil {
		return err
	}
	for fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		fv = fv.Elem()
	}
	rv := reflect.ValueOf(val)
	switch {
	case rv.Type().AssignableTo(fv.Type()):
		fv.Set(rv)
	case rv.Type().ConvertibleTo(fv.Type()):
		fv.Set(rv.Convert(fv.Type()))
	default:
		return fmt.Errorf("%w: %T into %s", ErrTypeMismatch, val, fv.Type())
	}
	return nil
}
