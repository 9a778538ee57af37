package tabular

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// FromRows drains a query result into a new table called name. Column types
// follow the result's field OIDs; unrecognised types become String columns.
// rows is always closed.
func FromRows(name string, rows pgx.Rows) (*Table, error) {
	defer rows.Close()

	t := NewTable(name)
	for _, fd := range rows.FieldDescriptions() {
		if err := t.AddColumn(fd.Name, typeForOID(fd.DataTypeOID)); err != nil {
			return nil, err
		}
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			vals[i] = fromPG(v)
		}
		if _, err := t.AddRow(vals...); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// CopySource exposes the table's rows for pgx CopyFrom in column order.
func CopySource(t *Table) pgx.CopyFromSource {
	rows := make([][]any, len(t.rows))
	for i, r := range t.rows {
		rows[i] = r.Values()
	}
	return pgx.CopyFromRows(rows)
}

func typeForOID(oid uint32) ColumnType {
	switch oid {
	case pgtype.Int2OID, pgtype.Int4OID, pgtype.Int8OID:
		return Int64
	case pgtype.Float4OID, pgtype.Float8OID, pgtype.NumericOID:
		return Float64
	case pgtype.BoolOID:
		return Bool
	case pgtype.DateOID, pgtype.TimestampOID, pgtype.TimestamptzOID:
		return DateTime
	case pgtype.ByteaOID:
		return Bytes
	}
	return String
}

// fromPG unwraps pgx value types that normalize cannot handle directly.
func fromPG(v any) any {
	switch x := v.(type) {
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return fmt.Sprintf("%x-%x-%x-%x-%x", x[0:4], x[4:6], x[6:8], x[8:10], x[10:16])
	}
	return v
}
