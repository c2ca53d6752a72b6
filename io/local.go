package io

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalFileIO implements FileIO for local filesystem.
type LocalFileIO struct {
	basePath string
}

// NewLocalFileIO creates a new local file I/O handler.
func NewLocalFileIO() *LocalFileIO {
	return &LocalFileIO{}
}

// WithBasePath resolves relative paths against basePath.
func (l *LocalFileIO) WithBasePath(basePath string) *LocalFileIO {
	l.basePath = basePath
	return l
}

// Open opens a file for reading.
func (l *LocalFileIO) Open(ctx context.Context, path string) (InputFile, error) {
	return &localInputFile{path: l.resolve(path)}, nil
}

// Create creates a new file for writing.
func (l *LocalFileIO) Create(ctx context.Context, path string) (OutputFile, error) {
	return &localOutputFile{path: l.resolve(path)}, nil
}

// Delete deletes a file.
func (l *LocalFileIO) Delete(ctx context.Context, path string) error {
	return os.Remove(l.resolve(path))
}

// Exists checks if a file exists.
func (l *LocalFileIO) Exists(ctx context.Context, path string) (bool, error) {
	return statExists(l.resolve(path))
}

func (l *LocalFileIO) resolve(path string) string {
	path = normalizePath(path)
	if l.basePath != "" && !filepath.IsAbs(path) {
		return filepath.Join(l.basePath, path)
	}
	return path
}

// normalizePath removes file:// prefix if present.
func normalizePath(path string) string {
	return strings.TrimPrefix(path, "file://")
}

func statExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// localInputFile implements InputFile for local filesystem.
type localInputFile struct {
	path string
}

func (f *localInputFile) Location() string {
	return f.path
}

func (f *localInputFile) Exists(ctx context.Context) (bool, error) {
	return statExists(f.path)
}

func (f *localInputFile) Length(ctx context.Context) (int64, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (f *localInputFile) Open(ctx context.Context) (io.ReadCloser, error) {
	return os.Open(f.path)
}

// localOutputFile implements OutputFile for local filesystem.
type localOutputFile struct {
	path string
}

func (f *localOutputFile) Location() string {
	return f.path
}

func (f *localOutputFile) Create(ctx context.Context) (io.WriteCloser, error) {
	if err := f.mkdirParent(); err != nil {
		return nil, err
	}

	// O_EXCL fails if the file exists
	return os.OpenFile(f.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
}

func (f *localOutputFile) CreateOverwrite(ctx context.Context) (io.WriteCloser, error) {
	if err := f.mkdirParent(); err != nil {
		return nil, err
	}
	return os.Create(f.path)
}

func (f *localOutputFile) mkdirParent() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}
