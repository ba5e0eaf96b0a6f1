// Package proctable loads process tables from CSV files.
//
// A table has at least four columns: id, start_time, burst_time and
// priority_or_period. The first row is a header unless its second column is
// an integer. Rows with fewer than four columns are skipped.
package proctable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/me/probsched/pkg/model"
)

// MinColumns is the number of columns every usable row has.
const MinColumns = 4

// ErrEmpty is returned for a file with no rows at all.
var ErrEmpty = errors.New("process table is empty")

// Table is a loaded process table.
type Table struct {
	Header    []string              `json:"header,omitempty"`
	Processes []model.ProcessRecord `json:"processes"`
	// Skipped counts rows dropped for having fewer than MinColumns cells.
	Skipped int `json:"skipped"`
}

// LoadFile reads the table at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open process table: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse reads a table from r.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	t := &Table{Processes: []model.ProcessRecord{}}
	first := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if first {
			first = false
			if len(row) < MinColumns {
				return nil, fmt.Errorf("line %d: need at least %d columns, got %d", line, MinColumns, len(row))
			}
			if !isInt(row[1]) {
				t.Header = trimAll(row)
				continue
			}
		}

		if len(row) < MinColumns {
			t.Skipped++
			continue
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t.Processes = append(t.Processes, rec)
	}

	if first {
		return nil, ErrEmpty
	}
	return t, nil
}

func parseRow(row []string) (model.ProcessRecord, error) {
	var vals [3]int
	for i := range vals {
		cell := strings.TrimSpace(row[i+1])
		n, err := strconv.Atoi(cell)
		if err != nil {
			return model.ProcessRecord{}, fmt.Errorf("column %d: %q is not an integer", i+2, cell)
		}
		vals[i] = n
	}
	return model.ProcessRecord{
		ID:               strings.TrimSpace(row[0]),
		StartTime:        vals[0],
		BurstTime:        vals[1],
		PriorityOrPeriod: vals[2],
	}, nil
}

func isInt(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
