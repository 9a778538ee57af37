// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// table.go — in-memory relational containers: typed columns, rows with
// nullable cells, and the DataSet shell that owns a group of tables. Values
// are normalised to one Go representation per column type on entry.

// Package tabular provides in-memory tables and datasets that persist
// themselves as schema-aware XML.
package tabular

import (
	"errors"
	"fmt"
)

var (
	ErrNilTable        = errors.New("tabular: table is nil")
	ErrNilRow          = errors.New("tabular: row is nil")
	ErrInvalidColumn   = errors.New("tabular: column name is empty")
	ErrUnknownColumn   = errors.New("tabular: column does not exist")
	ErrDuplicateColumn = errors.New("tabular: column already exists")
	ErrDuplicateTable  = errors.New("tabular: table name already exists in dataset")
	ErrTableOwned      = errors.New("tabular: table already belongs to another dataset")
	ErrColumnCount     = errors.New("tabular: value count does not match column count")
	ErrTypeMismatch    = errors.New("tabular: value does not fit column type")
	ErrNoTable         = errors.New("tabular: document contains no table")
	ErrInvalidText     = errors.New("tabular: text cannot be represented in XML")
)

// DefaultDataSetName names datasets created without an explicit name.
const DefaultDataSetName = "NewDataSet"

// Column describes one named, typed column.
type Column struct {
	Name string
	Type ColumnType
}

// Table is a named set of typed columns and rows. A Table is not safe for
// concurrent mutation.
type Table struct {
	Name string

	columns []Column
	index   map[string]int
	rows    []*Row
	set     *DataSet
}

// NewTable creates an empty table.
func NewTable(name string) *Table {
	return &Table{Name: name, index: make(map[string]int)}
}

// AddColumn appends a column. Existing rows receive a null cell.
func (t *Table) AddColumn(name string, typ ColumnType) error {
	if name == "" {
		return ErrInvalidColumn
	}
	if _, ok := t.index[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, Column{Name: name, Type: typ})
	for _, r := range t.rows {
		r.values = append(r.values, nil)
	}
	return nil
}

// Columns returns a copy of the column definitions in order.
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.columns...)
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// AddRow appends a row with one value per column; nil marks a null cell.
func (t *Table) AddRow(values ...any) (*Row, error) {
	if len(values) != len(t.columns) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(values), len(t.columns))
	}
	r := &Row{table: t, values: make([]any, len(values))}
	for i, v := range values {
		nv, err := normalize(v, t.columns[i].Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", t.columns[i].Name, err)
		}
		r.values[i] = nv
	}
	t.rows = append(t.rows, r)
	return r, nil
}

// Rows returns the rows in insertion order.
func (t *Table) Rows() []*Row {
	return append([]*Row(nil), t.rows...)
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return len(t.rows) }

// DataSet returns the owning dataset, or nil.
func (t *Table) DataSet() *DataSet { return t.set }

// Row is one record of a Table.
type Row struct {
	table  *Table
	values []any
}

// Table returns the table the row belongs to.
func (r *Row) Table() *Table { return r.table }

// Values returns a copy of the cell values in column order.
func (r *Row) Values() []any {
	return append([]any(nil), r.values...)
}

func (r *Row) ordinal(column string) (int, error) {
	if column == "" {
		return 0, ErrInvalidColumn
	}
	i, ok := r.table.index[column]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	return i, nil
}

// Get returns the cell value for column; nil means null.
func (r *Row) Get(column string) (any, error) {
	i, err := r.ordinal(column)
	if err != nil {
		return nil, err
	}
	return r.values[i], nil
}

// Set replaces the cell value for column.
func (r *Row) Set(column string, v any) error {
	i, err := r.ordinal(column)
	if err != nil {
		return err
	}
	nv, err := normalize(v, r.table.columns[i].Type)
	if err != nil {
		return fmt.Errorf("column %s: %w", column, err)
	}
	r.values[i] = nv
	return nil
}

// IsNull reports whether the cell for column is null.
func (r *Row) IsNull(column string) (bool, error) {
	v, err := r.Get(column)
	if err != nil {
		return false, err
	}
	return v == nil, nil
}

// DataSet is a named group of tables with unique names.
type DataSet struct {
	Name   string
	tables []*Table
}

// NewDataSet creates an empty dataset. An empty name selects
// DefaultDataSetName.
func NewDataSet(name string) *DataSet {
	if name == "" {
		name = DefaultDataSetName
	}
	return &DataSet{Name: name}
}

// Add attaches t to the dataset.
func (s *DataSet) Add(t *Table) error {
	if t == nil {
		return ErrNilTable
	}
	if t.set == s {
		return nil
	}
	if t.set != nil {
		return fmt.Errorf("%w: %s", ErrTableOwned, t.Name)
	}
	if s.Table(t.Name) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateTable, t.Name)
	}
	t.set = s
	s.tables = append(s.tables, t)
	return nil
}

// Tables returns the tables in insertion order.
func (s *DataSet) Tables() []*Table {
	return append([]*Table(nil), s.tables...)
}

// Table returns the table named name, or nil.
func (s *DataSet) Table(name string) *Table {
	for _, t := range s.tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}
