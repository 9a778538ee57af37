package tabular

import (
	"bytes"
	"encoding/gob"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
)

// Tables and datasets implement the MessagePack, Gob and JSON encoder hooks
// so the binary codecs carry columns, rows and the owning dataset's name.
// Cells travel in the same text form as XML fields.

type wireTable struct {
	Name    string       `json:"name" msgpack:"name"`
	DataSet string       `json:"dataset,omitempty" msgpack:"dataset,omitempty"`
	Columns []wireColumn `json:"columns" msgpack:"columns"`
	Rows    [][]wireCell `json:"rows" msgpack:"rows"`
}

type wireColumn struct {
	Name string `json:"name" msgpack:"name"`
	Type string `json:"type" msgpack:"type"`
}

type wireCell struct {
	Null bool   `json:"null,omitempty" msgpack:"null,omitempty"`
	Text string `json:"text,omitempty" msgpack:"text,omitempty"`
}

type wireDataSet struct {
	Name   string      `json:"name" msgpack:"name"`
	Tables []wireTable `json:"tables" msgpack:"tables"`
}

func (t *Table) wire(withSet bool) wireTable {
	w := wireTable{
		Name:    t.Name,
		Columns: make([]wireColumn, len(t.columns)),
		Rows:    make([][]wireCell, len(t.rows)),
	}
	if withSet && t.set != nil {
		w.DataSet = t.set.Name
	}
	for i, c := range t.columns {
		w.Columns[i] = wireColumn{Name: c.Name, Type: c.Type.String()}
	}
	for i, r := range t.rows {
		cells := make([]wireCell, len(t.columns))
		for j, c := range t.columns {
			if r.values[j] == nil {
				cells[j].Null = true
				continue
			}
			cells[j].Text = formatValue(r.values[j], c.Type)
		}
		w.Rows[i] = cells
	}
	return w
}

// load replaces t's contents with w.
func (t *Table) load(w wireTable) error {
	*t = Table{Name: w.Name, index: make(map[string]int, len(w.Columns))}
	for _, c := range w.Columns {
		typ, err := ParseColumnType(c.Type)
		if err != nil {
			return err
		}
		if err := t.AddColumn(c.Name, typ); err != nil {
			return err
		}
	}
	for n, cells := range w.Rows {
		if len(cells) != len(t.columns) {
			return fmt.Errorf("table %s row %d: %w: got %d, want %d", t.Name, n, ErrColumnCount, len(cells), len(t.columns))
		}
		r := &Row{table: t, values: make([]any, len(cells))}
		for i, cell := range cells {
			if cell.Null {
				continue
			}
			v, err := parseValue(cell.Text, t.columns[i].Type)
			if err != nil {
				return fmt.Errorf("table %s row %d: %w", t.Name, n, err)
			}
			r.values[i] = v
		}
		t.rows = append(t.rows, r)
	}
	if w.DataSet != "" {
		return NewDataSet(w.DataSet).Add(t)
	}
	return nil
}

func (s *DataSet) wire() wireDataSet {
	w := wireDataSet{Name: s.Name, Tables: make([]wireTable, len(s.tables))}
	for i, t := range s.tables {
		w.Tables[i] = t.wire(false)
	}
	return w
}

func (s *DataSet) load(w wireDataSet) error {
	*s = DataSet{Name: w.Name}
	for _, wt := range w.Tables {
		t := &Table{}
		if err := t.load(wt); err != nil {
			return err
		}
		if err := s.Add(t); err != nil {
			return err
		}
	}
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (t *Table) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(t.wire(true))
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (t *Table) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w wireTable
	if err := dec.Decode(&w); err != nil {
		return err
	}
	return t.load(w)
}

// GobEncode implements gob.GobEncoder.
func (t *Table) GobEncode() ([]byte, error) {
	return gobBytes(t.wire(true))
}

// GobDecode implements gob.GobDecoder.
func (t *Table) GobDecode(b []byte) error {
	var w wireTable
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&w); err != nil {
		return err
	}
	return t.load(w)
}

// MarshalJSON implements json.Marshaler.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.wire(true))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Table) UnmarshalJSON(b []byte) error {
	var w wireTable
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	return t.load(w)
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (s *DataSet) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(s.wire())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (s *DataSet) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w wireDataSet
	if err := dec.Decode(&w); err != nil {
		return err
	}
	return s.load(w)
}

// GobEncode implements gob.GobEncoder.
func (s *DataSet) GobEncode() ([]byte, error) {
	return gobBytes(s.wire())
}

// GobDecode implements gob.GobDecoder.
func (s *DataSet) GobDecode(b []byte) error {
	var w wireDataSet
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&w); err != nil {
		return err
	}
	return s.load(w)
}

// MarshalJSON implements json.Marshaler.
func (s *DataSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.wire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *DataSet) UnmarshalJSON(b []byte) error {
	var w wireDataSet
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	return s.load(w)
}

func gobBytes(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
