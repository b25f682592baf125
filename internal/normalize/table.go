// Package normalize converts raw Fitbit payloads into flat tabular record
// sets keyed by device id and date.
package normalize

// Join-key and shared column names, kept verbatim from the exported CSV
// vocabulary.
const (
	ColDevice = "Id_dispositivo"
	ColDate   = "DateTime"
	ColLogID  = "logId"
)

// Table is a record set with a stable column order. Rows hold cells by column
// name; a missing or nil cell renders as an empty CSV field.
type Table struct {
	Columns []string
	Rows    []map[string]any

	colSet map[string]struct{}
}

func NewTable(columns ...string) *Table {
	t := &Table{colSet: make(map[string]struct{})}
	t.AddColumns(columns...)
	return t
}

// AddColumns registers columns in order of first appearance; duplicates are
// ignored.
func (t *Table) AddColumns(names ...string) {
	if t.colSet == nil {
		t.colSet = make(map[string]struct{})
	}
	for _, name := range names {
		if _, ok := t.colSet[name]; ok {
			continue
		}
		t.colSet[name] = struct{}{}
		t.Columns = append(t.Columns, name)
	}
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.colSet[name]
	return ok
}

func (t *Table) Append(row map[string]any) {
	t.Rows = append(t.Rows, row)
}

func (t *Table) Len() int { return len(t.Rows) }

func (t *Table) Empty() bool { return t == nil || len(t.Rows) == 0 }
