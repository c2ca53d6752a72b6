package io

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedScheme is returned for locations no configured backend serves.
var ErrUnsupportedScheme = errors.New("unsupported location scheme")

// Router dispatches each location to a backend by its URI scheme: s3:// and
// s3a:// go to S3, plain paths and file:// go to the local filesystem.
type Router struct {
	local *LocalFileIO
	s3    FileIO
}

// NewRouter creates a router. s3 may be nil, in which case S3 locations fail
// with ErrUnsupportedScheme.
func NewRouter(local *LocalFileIO, s3 FileIO) *Router {
	if local == nil {
		local = NewLocalFileIO()
	}
	return &Router{local: local, s3: s3}
}

// Scheme returns the lower-cased scheme of location, or "file" for plain paths.
func Scheme(location string) string {
	i := strings.Index(location, "://")
	if i <= 0 {
		return "file"
	}
	return strings.ToLower(location[:i])
}

// Backend returns the FileIO that serves location.
func (r *Router) Backend(location string) (FileIO, error) {
	switch scheme := Scheme(location); scheme {
	case "file":
		return r.local, nil
	case "s3", "s3a":
		if r.s3 == nil {
			return nil, fmt.Errorf("%w: %s (S3 storage not configured)", ErrUnsupportedScheme, scheme)
		}
		return r.s3, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
}

// Open opens a file for reading.
func (r *Router) Open(ctx context.Context, path string) (InputFile, error) {
	b, err := r.Backend(path)
	if err != nil {
		return nil, err
	}
	return b.Open(ctx, path)
}

// Create creates a new file for writing.
func (r *Router) Create(ctx context.Context, path string) (OutputFile, error) {
	b, err := r.Backend(path)
	if err != nil {
		return nil, err
	}
	return b.Create(ctx, path)
}

// Delete deletes a file.
func (r *Router) Delete(ctx context.Context, path string) error {
	b, err := r.Backend(path)
	if err != nil {
		return err
	}
	return b.Delete(ctx, path)
}

// Exists checks if a file exists.
func (r *Router) Exists(ctx context.Context, path string) (bool, error) {
	b, err := r.Backend(path)
	if err != nil {
		return false, err
	}
	return b.Exists(ctx, path)
}

// Join appends name to a directory location, keeping its scheme.
func Join(dir, name string) string {
	if dir == "" {
		return name
	}
	return strings.TrimSuffix(dir, "/") + "/" + name
}
