package dataload

import (
	"context"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/BrobridgeOrg/go-dataload/frame"
	fileio "github.com/BrobridgeOrg/go-dataload/io"
	"github.com/BrobridgeOrg/go-dataload/imagebuf"
	"github.com/BrobridgeOrg/go-dataload/record"
)

// defaultClient serves the package-level functions from the local filesystem.
var defaultClient = sync.OnceValue(func() *Client {
	return newClient(DefaultConfig(), fileio.NewRouter(nil, nil))
})

// LoadImage decodes the local image at path into a dense buffer of shape
// (height, width) or (height, width, channels).
func LoadImage(ctx context.Context, path string) (*imagebuf.Buffer, error) {
	return defaultClient().LoadImage(ctx, path)
}

// LoadCSV parses the local CSV file at path into a table.
func LoadCSV(ctx context.Context, path string) (arrow.Table, error) {
	return defaultClient().LoadCSV(ctx, path)
}

// RecordsToTable builds a table from records. Columns are the union of record
// keys in first-seen order; a record lacking a key has a null cell there.
func RecordsToTable(records []*record.Record) (arrow.Table, error) {
	return defaultClient().RecordsToTable(records)
}

// TableFromAny is RecordsToTable for dynamically typed input.
func TableFromAny(v any) (arrow.Table, error) {
	return defaultClient().TableFromAny(v)
}

// RemoveKeys returns copies of records without the given keys.
func RemoveKeys(records []*record.Record, keys ...string) []*record.Record {
	return record.RemoveKeys(records, keys...)
}

// KeepKeys returns copies of records holding only the given keys.
func KeepKeys(records []*record.Record, keys ...string) []*record.Record {
	return record.KeepKeys(records, keys...)
}

// ColumnToList returns the values of the named column in row order.
func ColumnToList(tbl arrow.Table, name string) ([]record.Value, error) {
	return frame.ColumnToList(tbl, name)
}
