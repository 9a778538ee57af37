package tabular

import (
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// ColumnType is the storage type of a column.
type ColumnType int

const (
	String   ColumnType = iota // string
	Int64                      // int64
	Float64                    // float64
	Bool                       // bool
	DateTime                   // time.Time
	Bytes                      // []byte
)

var typeNames = [...]string{"string", "int64", "float64", "bool", "datetime", "bytes"}

func (c ColumnType) String() string {
	if c < 0 || int(c) >= len(typeNames) {
		return fmt.Sprintf("ColumnType(%d)", int(c))
	}
	return typeNames[c]
}

// ParseColumnType maps a schema type name back to a ColumnType.
func ParseColumnType(s string) (ColumnType, error) {
	for i, n := range typeNames {
		if n == s {
			return ColumnType(i), nil
		}
	}
	return String, fmt.Errorf("tabular: unknown column type %q", s)
}

// normalize converts v to the canonical Go type for typ.
func normalize(v any, typ ColumnType) (any, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && typ != String && typ != Bytes {
		return parseValue(s, typ)
	}
	rv := reflect.ValueOf(v)
	switch typ {
	case String:
		switch x := v.(type) {
		case string:
			return x, nil
		case []byte:
			return string(x), nil
		case fmt.Stringer:
			return x.String(), nil
		}
		return fmt.Sprint(v), nil
	case Int64:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return rv.Int(), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if rv.Uint() > math.MaxInt64 {
				return nil, fmt.Errorf("%w: %d overflows int64", ErrTypeMismatch, rv.Uint())
			}
			return int64(rv.Uint()), nil
		}
	case Float64:
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			return rv.Float(), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float64(rv.Uint()), nil
		}
	case Bool:
		if rv.Kind() == reflect.Bool {
			return rv.Bool(), nil
		}
	case DateTime:
		if tm, ok := v.(time.Time); ok {
			return tm, nil
		}
	case Bytes:
		switch x := v.(type) {
		case []byte:
			return append([]byte(nil), x...), nil
		case string:
			return []byte(x), nil
		}
	}
	return nil, fmt.Errorf("%w: %T into %s", ErrTypeMismatch, v, typ)
}

// formatValue renders a normalised value as element text.
func formatValue(v any, typ ColumnType) string {
	switch typ {
	case Int64:
		return strconv.FormatInt(v.(int64), 10)
	case Float64:
		return strconv.FormatFloat(v.(float64), 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(v.(bool))
	case DateTime:
		return v.(time.Time).Format(time.RFC3339Nano)
	case Bytes:
		return base64.StdEncoding.EncodeToString(v.([]byte))
	}
	return v.(string)
}

// parseValue is the inverse of formatValue.
func parseValue(s string, typ ColumnType) (any, error) {
	var (
		v   any
		err error
	)
	switch typ {
	case Int64:
		v, err = strconv.ParseInt(s, 10, 64)
	case Float64:
		v, err = strconv.ParseFloat(s, 64)
	case Bool:
		v, err = strconv.ParseBool(s)
	case DateTime:
		v, err = time.Parse(time.RFC3339Nano, s)
	case Bytes:
		v, err = base64.StdEncoding.DecodeString(s)
	default:
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q as %s: %v", ErrTypeMismatch, s, typ, err)
	}
	return v, nil
}
