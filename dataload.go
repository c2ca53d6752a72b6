package dataload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/uuid"

	"github.com/BrobridgeOrg/go-dataload/frame"
	fileio "github.com/BrobridgeOrg/go-dataload/io"
	"github.com/BrobridgeOrg/go-dataload/imagebuf"
	"github.com/BrobridgeOrg/go-dataload/record"
)

// Client is the main entry point for go-dataload operations.
type Client struct {
	config *Config
	io     *fileio.Router
	logger *slog.Logger
}

// NewClient creates a new go-dataload client with the given configuration.
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	router, err := createFileIO(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create file IO: %w", err)
	}

	return newClient(config, router), nil
}

func newClient(config *Config, router *fileio.Router) *Client {
	return &Client{
		config: config,
		io:     router,
		logger: config.Logger,
	}
}

// validateConfig validates the client configuration.
func validateConfig(config *Config) error {
	switch config.StorageType {
	case StorageLocal, StorageS3:
	default:
		return fmt.Errorf("%w: unsupported storage type: %s", ErrInvalidConfig, config.StorageType)
	}
	if config.Allocator == nil {
		return fmt.Errorf("%w: allocator is required", ErrInvalidConfig)
	}
	if config.Logger == nil {
		return fmt.Errorf("%w: logger is required", ErrInvalidConfig)
	}
	if !validComma(config.CSVComma) {
		return fmt.Errorf("%w: invalid CSV delimiter %q", ErrInvalidConfig, config.CSVComma)
	}
	return nil
}

func validComma(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// createFileIO creates the storage router based on the configuration.
func createFileIO(ctx context.Context, config *Config) (*fileio.Router, error) {
	local := fileio.NewLocalFileIO()
	if config.LocalConfig != nil {
		local.WithBasePath(config.LocalConfig.BasePath)
	}

	if config.StorageType != StorageS3 {
		return fileio.NewRouter(local, nil), nil
	}

	if config.S3Config == nil {
		config.S3Config = &S3Config{}
	}
	s3, err := fileio.NewS3FileIO(ctx, &fileio.S3Config{
		Region:          config.S3Config.Region,
		Endpoint:        config.S3Config.Endpoint,
		AccessKeyID:     config.S3Config.AccessKeyID,
		SecretAccessKey: config.S3Config.SecretAccessKey,
		SessionToken:    config.S3Config.SessionToken,
		ForcePathStyle:  config.S3Config.ForcePathStyle,
	})
	if err != nil {
		return nil, err
	}
	return fileio.NewRouter(local, s3), nil
}

// Config returns the client configuration.
func (c *Client) Config() *Config {
	return c.config
}

// FileIO returns the file I/O handler.
func (c *Client) FileIO() fileio.FileIO {
	return c.io
}

// open opens path for reading, reporting failures as *IOError.
func (c *Client) open(ctx context.Context, op, path string) (io.ReadCloser, error) {
	in, err := c.io.Open(ctx, path)
	if err != nil {
		return nil, newIOError(op, path, pathError(err))
	}
	rc, err := in.Open(ctx)
	if err != nil {
		return nil, newIOError(op, path, err)
	}
	return rc, nil
}

func pathError(err error) error {
	if errors.Is(err, fileio.ErrUnsupportedScheme) {
		return fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	return err
}

func invalidData(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidData, err)
}

// LoadImage decodes the image at path into a dense buffer.
func (c *Client) LoadImage(ctx context.Context, path string) (*imagebuf.Buffer, error) {
	rc, err := c.open(ctx, "load image", path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	buf, format, err := imagebuf.Decode(rc)
	if err != nil {
		return nil, newIOError("load image", path, invalidData(err))
	}

	c.logger.Debug("loaded image",
		"path", path,
		"format", format,
		"mode", buf.Mode,
		"shape", buf.Shape(),
	)
	return buf, nil
}

// LoadCSV parses the CSV file at path, whose first row is the header, into a table.
func (c *Client) LoadCSV(ctx context.Context, path string) (arrow.Table, error) {
	rc, err := c.open(ctx, "load csv", path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	tbl, err := frame.ReadCSV(rc,
		frame.WithComma(c.config.CSVComma),
		frame.WithNullValues(c.config.CSVNullValues...),
		frame.WithCSVOptions(frame.WithAllocator(c.config.Allocator)),
	)
	if err != nil {
		return nil, newIOError("load csv", path, invalidData(err))
	}

	c.logTable("loaded csv", path, tbl)
	return tbl, nil
}

// LoadParquet reads the Parquet file at path into a table.
func (c *Client) LoadParquet(ctx context.Context, path string) (arrow.Table, error) {
	in, err := c.io.Open(ctx, path)
	if err != nil {
		return nil, newIOError("load parquet", path, pathError(err))
	}
	r, err := fileio.OpenSeekable(ctx, in)
	if err != nil {
		return nil, newIOError("load parquet", path, err)
	}
	defer r.Close()

	tbl, err := frame.ReadParquet(ctx, r, frame.WithAllocator(c.config.Allocator))
	if err != nil {
		return nil, newIOError("load parquet", path, invalidData(err))
	}

	c.logTable("loaded parquet", path, tbl)
	return tbl, nil
}

// LoadJSONRecords reads a JSON array of flat objects at path into records.
func (c *Client) LoadJSONRecords(ctx context.Context, path string) ([]*record.Record, error) {
	rc, err := c.open(ctx, "load json", path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, err := record.DecodeJSON(rc)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, newIOError("load json", path, invalidData(err))
	}

	c.logger.Debug("loaded json records", "path", path, "records", len(records))
	return records, nil
}

// RecordsToTable builds a table with one row per record.
func (c *Client) RecordsToTable(records []*record.Record) (arrow.Table, error) {
	return frame.FromRecords(records, frame.WithAllocator(c.config.Allocator))
}

// TableFromAny builds a table from a dynamically typed list of records, such
// as a []map[string]any. Anything else fails with a *ValidationError.
func (c *Client) TableFromAny(v any) (arrow.Table, error) {
	records, err := record.FromAny(v)
	if err != nil {
		return nil, err
	}
	return c.RecordsToTable(records)
}

// ExportCSV writes tbl with a header row to path, replacing any existing file.
func (c *Client) ExportCSV(ctx context.Context, tbl arrow.Table, path string) error {
	out, err := c.io.Create(ctx, path)
	if err != nil {
		return newIOError("export csv", path, pathError(err))
	}
	w, err := out.CreateOverwrite(ctx)
	if err != nil {
		return newIOError("export csv", path, err)
	}

	if err := c.finish(ctx, path, w, func(w io.Writer) error { return frame.WriteCSV(w, tbl) }); err != nil {
		return newIOError("export csv", path, err)
	}

	c.logTable("exported csv", path, tbl)
	return nil
}

// ExportParquet writes tbl as a new Parquet file with a random name in dir and
// returns its location.
func (c *Client) ExportParquet(ctx context.Context, tbl arrow.Table, dir string) (string, error) {
	path, err := c.exportNew(ctx, "export parquet", dir, ".parquet", func(w io.Writer) error {
		return frame.WriteParquet(w, tbl)
	})
	if err != nil {
		return "", err
	}

	c.logTable("exported parquet", path, tbl)
	return path, nil
}

// ExportAvro writes records as a new Avro container file with a random name
// in dir and returns its location.
func (c *Client) ExportAvro(ctx context.Context, records []*record.Record, dir string) (string, error) {
	path, err := c.exportNew(ctx, "export avro", dir, ".avro", func(w io.Writer) error {
		return record.WriteAvro(w, records)
	})
	if err != nil {
		return "", err
	}

	c.logger.Debug("exported avro", "path", path, "records", len(records))
	return path, nil
}

// exportNew creates dir/<uuid><ext> exclusively and fills it with write.
func (c *Client) exportNew(ctx context.Context, op, dir, ext string, write func(io.Writer) error) (string, error) {
	path := fileio.Join(dir, uuid.New().String()+ext)

	out, err := c.io.Create(ctx, path)
	if err != nil {
		return "", newIOError(op, path, pathError(err))
	}
	w, err := out.Create(ctx)
	if err != nil {
		return "", newIOError(op, path, err)
	}

	if err := c.finish(ctx, path, w, write); err != nil {
		return "", newIOError(op, path, err)
	}
	return path, nil
}

// finish runs write against w and closes it. Writers that can abort drop
// their output on failure; otherwise the partial file is removed.
func (c *Client) finish(ctx context.Context, path string, w io.WriteCloser, write func(io.Writer) error) error {
	aborter, canAbort := w.(fileio.Aborter)

	if err := write(w); err != nil {
		if canAbort {
			if aerr := aborter.Abort(); aerr != nil {
				c.logger.Warn("failed to abort write", "path", path, "error", aerr)
			}
			return err
		}
		w.Close()
		c.removePartial(ctx, path)
		return err
	}

	if err := w.Close(); err != nil {
		// aborting writers commit atomically on Close
		if !canAbort {
			c.removePartial(ctx, path)
		}
		return err
	}
	return nil
}

func (c *Client) removePartial(ctx context.Context, path string) {
	if err := c.io.Delete(ctx, path); err != nil {
		c.logger.Warn("failed to remove partial file", "path", path, "error", err)
	}
}

func (c *Client) logTable(msg, path string, tbl arrow.Table) {
	c.logger.Debug(msg,
		"path", path,
		"rows", tbl.NumRows(),
		"columns", tbl.NumCols(),
	)
}
