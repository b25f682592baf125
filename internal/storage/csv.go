package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vickgarcia/fitpull/internal/normalize"
	"github.com/vickgarcia/fitpull/internal/xslog"
)

// Output file names, keyed by device id and date.
const (
	StepsCSV            = "Steps.csv"
	CaloriesCSV         = "Calories.csv"
	SleepCSV            = "Sleep.csv"
	RestingHeartRateCSV = "RestingHeartRate.csv"
	SpO2CSV             = "SPO2.csv"
	HeartRateDataCSV    = "HeartRateData.csv"
	AverageRateCSV      = "AverageRate.csv"
	MergedCSV           = "Merged.csv"
	IncompleteCSV       = "Registros_Incompletos.csv"
)

func (s *Store) SaveCSV(name string, t *normalize.Table) error {
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("writing %s header: %w", name, err)
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = formatCell(row[col])
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing %s row: %w", name, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", name, err)
	}

	s.logger.Info("saved CSV data", xslog.Path(path), xslog.Count(t.Len()))
	return nil
}

// formatCell renders a table cell; nil becomes an empty field.
func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case bool:
		if c {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", c)
	}
}
