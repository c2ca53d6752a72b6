// Package io provides storage access for loaders and exporters.
package io

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// FileIO is the interface for file operations.
type FileIO interface {
	// Open opens a file for reading.
	Open(ctx context.Context, path string) (InputFile, error)

	// Create creates a new file for writing.
	Create(ctx context.Context, path string) (OutputFile, error)

	// Delete deletes a file.
	Delete(ctx context.Context, path string) error

	// Exists checks if a file exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// InputFile represents a readable file.
type InputFile interface {
	// Location returns the file location.
	Location() string

	// Exists checks if the file exists.
	Exists(ctx context.Context) (bool, error)

	// Length returns the file length in bytes.
	Length(ctx context.Context) (int64, error)

	// Open opens the file for reading. A missing file yields an error
	// matching fs.ErrNotExist.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// OutputFile represents a writable file.
type OutputFile interface {
	// Location returns the file location.
	Location() string

	// Create creates the file for writing and fails if it already exists.
	Create(ctx context.Context) (io.WriteCloser, error)

	// CreateOverwrite creates or overwrites the file.
	CreateOverwrite(ctx context.Context) (io.WriteCloser, error)
}

// Aborter is implemented by writers that can discard buffered output instead
// of committing it on Close.
type Aborter interface {
	Abort() error
}

// SeekableReader extends io.ReadCloser with seeking capabilities.
type SeekableReader interface {
	io.ReadCloser
	io.Seeker
	io.ReaderAt
}

// OpenSeekable opens f for random access. Readers that cannot seek, such as
// S3 object bodies, are buffered in memory first.
func OpenSeekable(ctx context.Context, f InputFile) (SeekableReader, error) {
	rc, err := f.Open(ctx)
	if err != nil {
		return nil, err
	}
	if sr, ok := rc.(SeekableReader); ok {
		return sr, nil
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Location(), err)
	}
	return &memoryFile{Reader: bytes.NewReader(data)}, nil
}

// memoryFile adapts a bytes.Reader to SeekableReader.
type memoryFile struct {
	*bytes.Reader
}

func (m *memoryFile) Close() error {
	return nil
}
