package tabular

import (
	"encoding/xml"
	"fmt"
	"io"
	"unicode/utf8"
)

// Document layout:
//
//	<dataset name="NewDataSet">
//	  <schema>
//	    <table name="orders"><column name="id" type="int64"/></table>
//	  </schema>
//	  <table name="orders">
//	    <row><field name="id">1</field></row>
//	  </table>
//	</dataset>
//
// Null cells are omitted from their row. The schema section is optional;
// without it every column is read back as String, in first-seen order.

type xmlDocument struct {
	XMLName xml.Name   `xml:"dataset"`
	Name    string     `xml:"name,attr,omitempty"`
	Schema  *xmlSchema `xml:"schema"`
	Tables  []xmlTable `xml:"table"`
}

type xmlSchema struct {
	Tables []xmlTableDef `xml:"table"`
}

type xmlTableDef struct {
	Name    string      `xml:"name,attr"`
	Columns []xmlColumn `xml:"column"`
}

type xmlColumn struct {
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
}

type xmlTable struct {
	Name string   `xml:"name,attr"`
	Rows []xmlRow `xml:"row"`
}

type xmlRow struct {
	Fields []xmlField `xml:"field"`
}

type xmlField struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// WriteXML writes the table as a single-table dataset document. The dataset
// element carries the owning dataset's name when there is one.
func (t *Table) WriteXML(w io.Writer, withSchema bool) error {
	name := DefaultDataSetName
	if t.set != nil {
		name = t.set.Name
	}
	return writeDocument(w, name, []*Table{t}, withSchema)
}

// WriteXML writes every table of the dataset.
func (s *DataSet) WriteXML(w io.Writer, withSchema bool) error {
	return writeDocument(w, s.Name, s.tables, withSchema)
}

func writeDocument(w io.Writer, name string, tables []*Table, withSchema bool) error {
	if err := checkText(name); err != nil {
		return fmt.Errorf("dataset name: %w", err)
	}
	doc := xmlDocument{Name: name}
	if withSchema {
		doc.Schema = &xmlSchema{}
	}
	for _, t := range tables {
		if err := checkTableText(t); err != nil {
			return err
		}
		if withSchema {
			def := xmlTableDef{Name: t.Name}
			for _, c := range t.columns {
				def.Columns = append(def.Columns, xmlColumn{Name: c.Name, Type: c.Type.String()})
			}
			doc.Schema.Tables = append(doc.Schema.Tables, def)
		}
		xt := xmlTable{Name: t.Name, Rows: make([]xmlRow, 0, len(t.rows))}
		for _, r := range t.rows {
			var xr xmlRow
			for i, c := range t.columns {
				if r.values[i] == nil {
					continue
				}
				xr.Fields = append(xr.Fields, xmlField{Name: c.Name, Value: formatValue(r.values[i], c.Type)})
			}
			xt.Rows = append(xt.Rows, xr)
		}
		doc.Tables = append(doc.Tables, xt)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// checkTableText rejects names and string cells that encoding/xml would
// rewrite on output.
func checkTableText(t *Table) error {
	if err := checkText(t.Name); err != nil {
		return fmt.Errorf("table name: %w", err)
	}
	for _, c := range t.columns {
		if err := checkText(c.Name); err != nil {
			return fmt.Errorf("table %s column name: %w", t.Name, err)
		}
	}
	for n, r := range t.rows {
		for i, c := range t.columns {
			if s, ok := r.values[i].(string); ok {
				if err := checkText(s); err != nil {
					return fmt.Errorf("table %s row %d column %s: %w", t.Name, n, c.Name, err)
				}
			}
		}
	}
	return nil
}

func checkText(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: invalid UTF-8 in %q", ErrInvalidText, s)
	}
	for _, r := range s {
		if !isXMLChar(r) {
			return fmt.Errorf("%w: %U in %q", ErrInvalidText, r, s)
		}
	}
	return nil
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

// ReadDataSetXML reconstructs a dataset from a document written by WriteXML.
func ReadDataSetXML(r io.Reader) (*DataSet, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	defs := make(map[string]xmlTableDef)
	if doc.Schema != nil {
		for _, d := range doc.Schema.Tables {
			defs[d.Name] = d
		}
	}
	s := NewDataSet(doc.Name)
	for _, xt := range doc.Tables {
		t, err := buildTable(xt, defs[xt.Name])
		if err != nil {
			return nil, err
		}
		if err := s.Add(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ReadTableXML reconstructs the first table of a document written by
// WriteXML. The returned table is not attached to a dataset.
func ReadTableXML(r io.Reader) (*Table, error) {
	s, err := ReadDataSetXML(r)
	if err != nil {
		return nil, err
	}
	if len(s.tables) == 0 {
		return nil, ErrNoTable
	}
	t := s.tables[0]
	t.set = nil
	return t, nil
}

func buildTable(xt xmlTable, def xmlTableDef) (*Table, error) {
	t := NewTable(xt.Name)
	for _, c := range def.Columns {
		typ, err := ParseColumnType(c.Type)
		if err != nil {
			return nil, err
		}
		if err := t.AddColumn(c.Name, typ); err != nil {
			return nil, err
		}
	}
	// Columns absent from the schema are inferred as strings.
	for _, xr := range xt.Rows {
		for _, f := range xr.Fields {
			if _, ok := t.index[f.Name]; !ok {
				if err := t.AddColumn(f.Name, String); err != nil {
					return nil, err
				}
			}
		}
	}
	for n, xr := range xt.Rows {
		r := &Row{table: t, values: make([]any, len(t.columns))}
		for _, f := range xr.Fields {
			i := t.index[f.Name]
			v, err := parseValue(f.Value, t.columns[i].Type)
			if err != nil {
				return nil, fmt.Errorf("table %s row %d: %w", t.Name, n, err)
			}
			r.values[i] = v
		}
		t.rows = append(t.rows, r)
	}
	return t, nil
}
