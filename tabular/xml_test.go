package tabular_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/AndrewDonelson/persist/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableXML_WithSchemaKeepsTypes(t *testing.T) {
	tbl := newOrders(t)
	placed := time.Date(2025, 3, 4, 5, 6, 7, 800, time.UTC)
	_, err := tbl.AddRow(1, "widget", 2.5, true, placed, []byte("abc"))
	require.NoError(t, err)
	_, err = tbl.AddRow(2, "", nil, nil, nil, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteXML(&buf, true))
	assert.Contains(t, buf.String(), `<column name="price" type="float64"></column>`)

	got, err := tabular.ReadTableXML(&buf)
	require.NoError(t, err)
	assert.Equal(t, "orders", got.Name)
	assert.Nil(t, got.DataSet())
	assert.Equal(t, tbl.Columns(), got.Columns())
	require.Equal(t, 2, got.RowCount())
	assert.Equal(t, tbl.Rows()[0].Values(), got.Rows()[0].Values())

	// empty string and null stay distinct
	item, err := got.Rows()[1].Get("item")
	require.NoError(t, err)
	assert.Equal(t, "", item)
	null, err := got.Rows()[1].IsNull("price")
	require.NoError(t, err)
	assert.True(t, null)
}

func TestTableXML_UsesOwnerName(t *testing.T) {
	tbl := tabular.NewTable("t")
	require.NoError(t, tabular.NewDataSet("Inventory").Add(tbl))
	var buf bytes.Buffer
	require.NoError(t, tbl.WriteXML(&buf, false))
	assert.Contains(t, buf.String(), `<dataset name="Inventory">`)
}

func TestDataSetXML_WithoutSchemaInfersStrings(t *testing.T) {
	ds := tabular.NewDataSet("shop")
	tbl := newOrders(t)
	require.NoError(t, ds.Add(tbl))
	_, err := tbl.AddRow(1, "widget", 2.5, nil, nil, nil)
	require.NoError(t, err)
	other := tabular.NewTable("notes")
	require.NoError(t, other.AddColumn("text", tabular.String))
	require.NoError(t, ds.Add(other))

	var buf bytes.Buffer
	require.NoError(t, ds.WriteXML(&buf, false))
	assert.NotContains(t, buf.String(), "<schema>")

	got, err := tabular.ReadDataSetXML(&buf)
	require.NoError(t, err)
	assert.Equal(t, "shop", got.Name)
	require.Len(t, got.Tables(), 2)

	orders := got.Table("orders")
	require.NotNil(t, orders)
	assert.Equal(t, []tabular.Column{
		{Name: "id", Type: tabular.String},
		{Name: "item", Type: tabular.String},
		{Name: "price", Type: tabular.String},
	}, orders.Columns())
	assert.Equal(t, []any{"1", "widget", "2.5"}, orders.Rows()[0].Values())

	f, err := tabular.Double(orders.Rows()[0], "price")
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)
}

func TestReadXML_Errors(t *testing.T) {
	_, err := tabular.ReadTableXML(strings.NewReader(`<dataset name="x"></dataset>`))
	assert.ErrorIs(t, err, tabular.ErrNoTable)

	_, err = tabular.ReadTableXML(strings.NewReader(`<dataset><table name="a">`))
	assert.Error(t, err)

	bad := `<dataset><schema><table name="a"><column name="n" type="int64"/></table></schema>` +
		`<table name="a"><row><field name="n">abc</field></row></table></dataset>`
	_, err = tabular.ReadTableXML(strings.NewReader(bad))
	assert.ErrorIs(t, err, tabular.ErrTypeMismatch)

	dup := `<dataset><table name="a"/><table name="a"/></dataset>`
	_, err = tabular.ReadDataSetXML(strings.NewReader(dup))
	assert.ErrorIs(t, err, tabular.ErrDuplicateTable)

	unknownType := `<dataset><schema><table name="a"><column name="n" type="money"/></table></schema><table name="a"/></dataset>`
	_, err = tabular.ReadTableXML(strings.NewReader(unknownType))
	assert.Error(t, err)
}

func TestWriteXML_RejectsTextXMLCannotHold(t *testing.T) {
	for name, text := range map[string]string{
		"control":  "a\x01b",
		"nul":      "\x00",
		"bad utf8": "a\xffb",
		"fffe":     "\uFFFE",
	} {
		t.Run(name, func(t *testing.T) {
			tbl := tabular.NewTable("notes")
			require.NoError(t, tbl.AddColumn("text", tabular.String))
			_, err := tbl.AddRow(text)
			require.NoError(t, err)

			var buf bytes.Buffer
			err = tbl.WriteXML(&buf, true)
			assert.ErrorIs(t, err, tabular.ErrInvalidText)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestWriteXML_RejectsInvalidNames(t *testing.T) {
	tbl := tabular.NewTable("bad\x02name")
	var buf bytes.Buffer
	assert.ErrorIs(t, tbl.WriteXML(&buf, false), tabular.ErrInvalidText)

	ds := tabular.NewDataSet("set\x03")
	assert.ErrorIs(t, ds.WriteXML(&buf, false), tabular.ErrInvalidText)

	col := tabular.NewTable("ok")
	require.NoError(t, col.AddColumn("c\x04", tabular.String))
	assert.ErrorIs(t, col.WriteXML(&buf, true), tabular.ErrInvalidText)
}

func TestWriteXML_KeepsWhitespaceAndAstral(t *testing.T) {
	tbl := tabular.NewTable("notes")
	require.NoError(t, tbl.AddColumn("text", tabular.String))
	text := "tab\there\nline\r\nend \U0001F600 \uFFFD"
	_, err := tbl.AddRow(text)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteXML(&buf, true))
	got, err := tabular.ReadTableXML(&buf)
	require.NoError(t, err)
	v, err := got.Rows()[0].Get("text")
	require.NoError(t, err)
	assert.Equal(t, text, v)
}
