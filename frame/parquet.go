package frame

import (
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// defaultRowGroupSize bounds the rows written per Parquet row group.
const defaultRowGroupSize = 128 * 1024

// WriteParquet writes tbl to w as a Snappy compressed Parquet file with the
// Arrow schema stored in the file metadata. w is left open.
func WriteParquet(w io.Writer, tbl arrow.Table) error {
	writerProps := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithStoreSchema(),
	)

	chunkSize := tbl.NumRows()
	if chunkSize <= 0 || chunkSize > defaultRowGroupSize {
		chunkSize = defaultRowGroupSize
	}

	// pqarrow closes sinks that implement io.Closer
	sink := struct{ io.Writer }{w}
	if err := pqarrow.WriteTable(tbl, sink, chunkSize, writerProps, arrowProps); err != nil {
		return fmt.Errorf("failed to write parquet: %w", err)
	}
	return nil
}

// ReadParquet reads a whole Parquet file into a table.
func ReadParquet(ctx context.Context, r parquet.ReaderAtSeeker, opts ...Option) (arrow.Table, error) {
	o := newOptions(opts)

	tbl, err := pqarrow.ReadTable(ctx, r, parquet.NewReaderProperties(o.mem), pqarrow.ArrowReadProperties{}, o.mem)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet: %w", err)
	}
	return tbl, nil
}
