package normalize

import (
	"errors"
	"fmt"
)

// ErrNothingToMerge is reported when every resource table came back empty.
// Non-fatal: the caller skips the merged outputs for the run.
var ErrNothingToMerge = errors.New("no data available to merge")

// Reconcile outer-joins the non-empty resource tables on (device id, date)
// and partitions the result by the presence of a sleep log identifier. Every
// joined row lands in exactly one partition.
func Reconcile(tables []*Table) (complete, incomplete *Table, err error) {
	nonEmpty := make([]*Table, 0, len(tables))
	for _, t := range tables {
		if !t.Empty() {
			nonEmpty = append(nonEmpty, t)
		}
	}
	if len(nonEmpty) == 0 {
		return nil, nil, ErrNothingToMerge
	}

	combined := outerJoin(nonEmpty)

	// When no resource contributed a log identifier, synthesize a null
	// column so partitioning stays total.
	if !combined.HasColumn(ColLogID) {
		combined.AddColumns(ColLogID)
	}

	complete = NewTable(combined.Columns...)
	incomplete = NewTable(combined.Columns...)
	for _, row := range combined.Rows {
		if row[ColLogID] != nil {
			complete.Append(row)
		} else {
			incomplete.Append(row)
		}
	}

	return complete, incomplete, nil
}

// outerJoin merges tables on the (device, date) key. The first table's rows
// seed the result; later tables fill new columns on matching keys and append
// rows for keys not yet seen. An earlier table's cell wins on the rare column
// collision.
func outerJoin(tables []*Table) *Table {
	joined := NewTable(tables[0].Columns...)

	index := make(map[string]int)
	for _, row := range tables[0].Rows {
		index[joinKey(row)] = joined.Len()
		joined.Append(copyRow(row))
	}

	for _, t := range tables[1:] {
		joined.AddColumns(t.Columns...)
		for _, row := range t.Rows {
			key := joinKey(row)
			i, ok := index[key]
			if !ok {
				index[key] = joined.Len()
				joined.Append(copyRow(row))
				continue
			}
			target := joined.Rows[i]
			for col, v := range row {
				if _, exists := target[col]; !exists {
					target[col] = v
				}
			}
		}
	}

	return joined
}

func joinKey(row map[string]any) string {
	return fmt.Sprintf("%v\x00%v", row[ColDevice], row[ColDate])
}

func copyRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for col, v := range row {
		out[col] = v
	}
	return out
}
