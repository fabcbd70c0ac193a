package output

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Table is a pre-built set of rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Tabular is implemented by values that know how to lay themselves out as
// a table.
type Tabular interface {
	Table() *Table
}

// Append adds a row, formatting each cell with %v.
func (t *Table) Append(cells ...any) {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = fmt.Sprint(c)
	}
	t.Rows = append(t.Rows, row)
}

// Render writes the table to w.
func (t *Table) Render(w io.Writer, noHeaders bool) error {
	tw := tablewriter.NewWriter(w)
	if !noHeaders && len(t.Headers) > 0 {
		tw.SetHeader(t.Headers)
	}
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetBorder(false)
	tw.SetColumnSeparator("")
	tw.SetHeaderLine(false)
	tw.SetTablePadding("  ")
	tw.SetNoWhiteSpace(true)
	tw.AppendBulk(t.Rows)
	tw.Render()
	return nil
}

// TableFormatter formats data as an aligned text table.
type TableFormatter struct {
	NoHeaders bool
}

// Format formats data as a table. data must be a Table, a *Table or a
// Tabular value.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case nil:
		return nil
	case *Table:
		return v.Render(w, f.NoHeaders)
	case Table:
		return v.Render(w, f.NoHeaders)
	case Tabular:
		return v.Table().Render(w, f.NoHeaders)
	default:
		return fmt.Errorf("cannot render %T as a table", data)
	}
}
