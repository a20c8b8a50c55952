package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

// Tabular is implemented by values that lay themselves out as a table.
// Wide asks for the optional columns.
type Tabular interface {
	Table(wide bool) *Table
}

// TableFormatter renders Tabular values and tables. Anything else is
// printed as YAML, which keeps nested values readable.
type TableFormatter struct {
	Wide      bool
	NoHeaders bool
}

// Format writes data to w.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case nil:
		return nil
	case *Table:
		return v.write(w, !f.NoHeaders)
	case Tabular:
		return v.Table(f.Wide).write(w, !f.NoHeaders)
	case fmt.Stringer:
		_, err := fmt.Fprintln(w, v.String())
		return err
	default:
		return (&YAMLFormatter{}).Format(w, data)
	}
}

// Table is a list of rows aligned in columns.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NewTable returns an empty table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

// NewFieldTable returns a FIELD/VALUE table for a single record.
func NewFieldTable() *Table {
	return NewTable("FIELD", "VALUE")
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Field appends a two-cell row with v rendered by Cell.
func (t *Table) Field(name string, v any) {
	t.AddRow(name, Cell(v))
}

// Render writes the table with headers.
func (t *Table) Render(w io.Writer) error {
	return t.write(w, true)
}

func (t *Table) write(w io.Writer, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// Cell renders a scalar for a table cell. Empty values print as "-".
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		if x == "" {
			return "-"
		}
		return x
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.IsZero() {
			return "-"
		}
		return x.Local().Format("2006-01-02 15:04")
	case time.Duration:
		return x.Round(time.Millisecond).String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return Cell(x.String())
	default:
		return fmt.Sprint(x)
	}
}
