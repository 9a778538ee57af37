package tabular

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// HasRows reports whether t contains at least one row.
func HasRows(t *Table) (bool, error) {
	if t == nil {
		return false, ErrNilTable
	}
	return t.RowCount() != 0, nil
}

// Double returns the cell as a float64, parsed from its text form so loosely
// typed cells (strings read from an untyped document, integers) convert too.
// A null cell yields NaN. A value too large for float64 yields ±Inf.
func Double(r *Row, column string) (float64, error) {
	s, null, err := cellText(r, column)
	if err != nil || null {
		return math.NaN(), err
	}
	return parseFloat(s, 64)
}

// Float is the single-precision form of Double. A value too large for
// float32 yields ±Inf.
func Float(r *Row, column string) (float32, error) {
	s, null, err := cellText(r, column)
	if err != nil || null {
		return float32(math.NaN()), err
	}
	f, err := parseFloat(s, 32)
	return float32(f), err
}

// parseFloat saturates out-of-range values to ±Inf instead of failing.
func parseFloat(s string, bitSize int) (float64, error) {
	f, err := strconv.ParseFloat(s, bitSize)
	if errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0) {
		return f, nil
	}
	return f, err
}

func cellText(r *Row, column string) (string, bool, error) {
	if r == nil {
		return "", false, ErrNilRow
	}
	v, err := r.Get(column)
	if err != nil {
		return "", false, err
	}
	switch x := v.(type) {
	case nil:
		return "", true, nil
	case string:
		return x, false, nil
	case []byte:
		return string(x), false, nil
	}
	return fmt.Sprint(v), false, nil
}
