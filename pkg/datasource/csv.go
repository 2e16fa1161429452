package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSVOptions controls CSV parsing.
type CSVOptions struct {
	// FirstRowAsNames uses the first record as column names. Defaults to true.
	FirstRowAsNames *bool
	Comma           rune
}

// CSV parses comma separated text into a table. Numeric cells become float64.
type CSV struct {
	name string
	open func() (io.ReadCloser, error)
	opts CSVOptions
}

// NewCSV serves inline CSV text.
func NewCSV(name, text string, opts CSVOptions) *CSV {
	return &CSV{
		name: name,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(text)), nil
		},
		opts: opts,
	}
}

// NewCSVFile serves a CSV file, re-read on every load.
func NewCSVFile(name, path string, opts CSVOptions) *CSV {
	return &CSV{
		name: name,
		open: func() (io.ReadCloser, error) {
			return os.Open(path) //nolint:gosec
		},
		opts: opts,
	}
}

func (c *CSV) Name() string { return c.name }

// Load parses the CSV content.
func (c *CSV) Load(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}
	rc, err := c.open()
	if err != nil {
		return Table{}, fmt.Errorf("datasource: open csv %s: %w", c.name, err)
	}
	defer rc.Close()
	return ParseCSV(rc, c.opts)
}

// ParseCSV reads every record from r.
func ParseCSV(r io.Reader, opts CSVOptions) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("datasource: parse csv: %w", err)
	}
	var table Table
	if len(records) == 0 {
		return table, nil
	}
	header := opts.FirstRowAsNames == nil || *opts.FirstRowAsNames
	if header {
		table.Columns = append([]string(nil), records[0]...)
		records = records[1:]
	} else {
		for i := range records[0] {
			table.Columns = append(table.Columns, fmt.Sprintf("column%d", i+1))
		}
	}
	table.Rows = make([][]any, 0, len(records))
	for _, rec := range records {
		row := make([]any, len(rec))
		for i, field := range rec {
			if f, err := strconv.ParseFloat(field, 64); err == nil {
				row[i] = f
				continue
			}
			row[i] = field
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
