// Package frame builds and reads Arrow tables from records and delimited or
// columnar files.
package frame

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/BrobridgeOrg/go-dataload/record"
)

// ErrColumnNotFound is returned when a requested column does not exist.
var ErrColumnNotFound = errors.New("column not found")

// ColumnNotFoundError names the missing column.
type ColumnNotFoundError struct {
	Column string
}

// Error implements the error interface.
func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in table", e.Column)
}

// Is reports whether the target matches this error.
func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}

// Option configures table construction.
type Option func(*options)

type options struct {
	mem memory.Allocator
}

// WithAllocator sets the allocator used for Arrow buffers.
func WithAllocator(mem memory.Allocator) Option {
	return func(o *options) {
		o.mem = mem
	}
}

func newOptions(opts []Option) *options {
	o := &options{mem: memory.DefaultAllocator}
	for _, opt := range opts {
		opt(o)
	}
	if o.mem == nil {
		o.mem = memory.DefaultAllocator
	}
	return o
}

// kindToArrow converts a unified record kind to an Arrow data type.
func kindToArrow(k record.Kind) arrow.DataType {
	switch k {
	case record.KindBool:
		return arrow.FixedWidthTypes.Boolean
	case record.KindInt:
		return arrow.PrimitiveTypes.Int64
	case record.KindFloat:
		return arrow.PrimitiveTypes.Float64
	case record.KindString:
		return arrow.BinaryTypes.String
	default:
		return arrow.Null
	}
}

// FromRecords builds a table whose columns are the union of keys across
// records in first-seen order. Rows follow the input order and keys a record
// lacks become null cells. The caller owns the returned table and must
// Release it.
func FromRecords(records []*record.Record, opts ...Option) (arrow.Table, error) {
	for i, r := range records {
		if r == nil {
			return nil, &record.ValidationError{Index: i, Message: "record is nil"}
		}
	}

	o := newOptions(opts)
	cols := record.Columns(records)

	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		fields[i] = arrow.Field{
			Name:     c.Name,
			Type:     kindToArrow(c.Kind),
			Nullable: true,
		}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(o.mem, schema)
	defer builder.Release()

	for _, r := range records {
		for i, c := range cols {
			if err := appendValue(builder.Field(i), record.Coerce(r.Lookup(c.Name), c.Kind)); err != nil {
				return nil, fmt.Errorf("column %q: %w", c.Name, err)
			}
		}
	}

	// records without keys still count as rows, so the row count is explicit
	columns := make([]arrow.Column, len(fields))
	for i, field := range fields {
		arr := builder.Field(i).NewArray()
		chunked := arrow.NewChunked(field.Type, []arrow.Array{arr})
		columns[i] = *arrow.NewColumn(field, chunked)
		chunked.Release()
		arr.Release()
	}

	tbl := array.NewTable(schema, columns, int64(len(records)))
	for i := range columns {
		columns[i].Release()
	}
	return tbl, nil
}

func appendValue(b array.Builder, v record.Value) error {
	if v.IsNull() {
		b.AppendNull()
		return nil
	}

	switch bldr := b.(type) {
	case *array.BooleanBuilder:
		x, _ := v.AsBool()
		bldr.Append(x)
	case *array.Int64Builder:
		x, _ := v.AsInt()
		bldr.Append(x)
	case *array.Float64Builder:
		x, _ := v.AsFloat()
		bldr.Append(x)
	case *array.StringBuilder:
		x, _ := v.AsString()
		bldr.Append(x)
	default:
		return fmt.Errorf("unsupported builder %T for %s value", b, v.Kind())
	}
	return nil
}

// ColumnNames returns the table's column names in order.
func ColumnNames(tbl arrow.Table) []string {
	fields := tbl.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// ColumnToList returns every value of the named column in row order.
// Null cells are returned as null values.
func ColumnToList(tbl arrow.Table, name string) ([]record.Value, error) {
	indices := tbl.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, &ColumnNotFoundError{Column: name}
	}

	col := tbl.Column(indices[0])
	values := make([]record.Value, 0, tbl.NumRows())
	for _, chunk := range col.Data().Chunks() {
		for i := 0; i < chunk.Len(); i++ {
			values = append(values, cellValue(chunk, i))
		}
	}
	return values, nil
}

// ToRecords converts every row of tbl to a record. Null cells are kept as
// null values so every record carries every column.
func ToRecords(tbl arrow.Table) ([]*record.Record, error) {
	names := ColumnNames(tbl)
	records := make([]*record.Record, tbl.NumRows())
	for i := range records {
		records[i] = record.New()
	}

	for _, name := range names {
		values, err := ColumnToList(tbl, name)
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			records[i].Set(name, v)
		}
	}
	return records, nil
}
