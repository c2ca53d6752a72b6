package frame

import (
	"bytes"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
)

// ErrEmptyCSV is returned when a CSV input has no header row.
var ErrEmptyCSV = errors.New("no columns to parse from csv")

var utf8BOM = []byte("\xef\xbb\xbf")

// DefaultNullValues are the cell contents read as null.
var DefaultNullValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// CSVOption configures CSV reading.
type CSVOption func(*csvOptions)

type csvOptions struct {
	options
	comma      rune
	nullValues []string
}

// WithComma sets the field delimiter.
func WithComma(r rune) CSVOption {
	return func(o *csvOptions) {
		o.comma = r
	}
}

// WithNullValues replaces the set of cell contents read as null.
func WithNullValues(values ...string) CSVOption {
	return func(o *csvOptions) {
		o.nullValues = values
	}
}

// WithCSVOptions applies table options to a CSV read.
func WithCSVOptions(opts ...Option) CSVOption {
	return func(o *csvOptions) {
		for _, opt := range opts {
			opt(&o.options)
		}
	}
}

// ReadCSV parses comma separated values with a header row into a table.
//
// Column types are inferred from every non-null cell of a column: int64 when
// all cells parse as integers, float64 when all parse as numbers, boolean for
// true/false columns and string otherwise. Columns with no values are strings.
// Empty header names become "Unnamed: N" and repeated names get ".1", ".2"
// suffixes.
func ReadCSV(r io.Reader, opts ...CSVOption) (arrow.Table, error) {
	o := &csvOptions{
		options:    *newOptions(nil),
		comma:      ',',
		nullValues: DefaultNullValues,
	}
	for _, opt := range opts {
		opt(o)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	header, types, bodyOffset, err := inferColumns(data, o)
	if err != nil {
		return nil, err
	}

	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		fields[i] = arrow.Field{Name: name, Type: types[i], Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	readerOpts := []csv.Option{
		csv.WithHeader(false),
		csv.WithComma(o.comma),
		csv.WithChunk(-1),
		csv.WithAllocator(o.mem),
	}
	if len(o.nullValues) > 0 {
		readerOpts = append(readerOpts, csv.WithNullReader(true, o.nullValues...))
	}

	// the header was consumed by inference; arrow only sees the rows
	reader := csv.NewReader(bytes.NewReader(data[bodyOffset:]), schema, readerOpts...)
	defer reader.Release()

	if !reader.Next() {
		if err := reader.Err(); err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		return nil, fmt.Errorf("failed to parse csv: no records")
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	rec := reader.Record()
	return array.NewTableFromRecords(schema, []arrow.Record{rec}), nil
}

// inferColumns reads the whole input once to derive column names and types.
// It also returns the byte offset where the rows following the header start.
func inferColumns(data []byte, o *csvOptions) ([]string, []arrow.DataType, int64, error) {
	cr := stdcsv.NewReader(bytes.NewReader(data))
	cr.Comma = o.comma
	cr.ReuseRecord = true

	raw, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, 0, ErrEmptyCSV
		}
		return nil, nil, 0, fmt.Errorf("failed to parse csv header: %w", err)
	}
	header := uniqueNames(raw)
	bodyOffset := cr.InputOffset()

	nulls := make(map[string]struct{}, len(o.nullValues))
	for _, v := range o.nullValues {
		nulls[v] = struct{}{}
	}

	cols := make([]columnInference, len(header))
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, 0, fmt.Errorf("failed to parse csv: %w", err)
		}
		for i, cell := range row {
			if _, ok := nulls[cell]; ok {
				continue
			}
			cols[i].observe(cell)
		}
	}

	types := make([]arrow.DataType, len(cols))
	for i := range cols {
		types[i] = cols[i].dataType()
	}
	return header, types, bodyOffset, nil
}

// columnInference narrows a column from int64 through float64 and bool down
// to string as cells are observed.
type columnInference struct {
	seen     bool
	notInt   bool
	notFloat bool
	notBool  bool
}

func (c *columnInference) observe(cell string) {
	c.seen = true
	if !c.notInt {
		if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
			c.notInt = true
		}
	}
	if !c.notFloat {
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			c.notFloat = true
		}
	}
	if !c.notBool {
		switch cell {
		case "true", "True", "TRUE", "false", "False", "FALSE":
		default:
			c.notBool = true
		}
	}
}

func (c *columnInference) dataType() arrow.DataType {
	switch {
	case !c.seen:
		return arrow.BinaryTypes.String
	case !c.notInt:
		return arrow.PrimitiveTypes.Int64
	case !c.notFloat:
		return arrow.PrimitiveTypes.Float64
	case !c.notBool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

// uniqueNames fills empty header names and suffixes duplicates.
func uniqueNames(raw []string) []string {
	names := make([]string, len(raw))
	used := make(map[string]struct{}, len(raw))
	for i, name := range raw {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for n := 1; ; n++ {
			if _, ok := used[candidate]; !ok {
				break
			}
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		used[candidate] = struct{}{}
		names[i] = candidate
	}
	return names
}

// WriteCSV writes tbl to w with a header row. Null cells are written empty.
func WriteCSV(w io.Writer, tbl arrow.Table) error {
	writer := csv.NewWriter(w, tbl.Schema(),
		csv.WithHeader(true),
		csv.WithNullWriter(""),
	)

	reader := array.NewTableReader(tbl, 0)
	defer reader.Release()

	wrote := false
	for reader.Next() {
		if err := writer.Write(reader.Record()); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
		wrote = true
	}
	if err := reader.Err(); err != nil {
		return fmt.Errorf("failed to read table: %w", err)
	}
	if !wrote {
		if err := writeHeaderOnly(w, tbl.Schema()); err != nil {
			return err
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func writeHeaderOnly(w io.Writer, schema *arrow.Schema) error {
	cw := stdcsv.NewWriter(w)
	names := make([]string, schema.NumFields())
	for i, f := range schema.Fields() {
		names[i] = f.Name
	}
	if err := cw.Write(names); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
