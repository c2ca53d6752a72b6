package io

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestScheme(t *testing.T) {
	tests := map[string]string{
		"/tmp/a.csv":         "file",
		"relative/a.csv":     "file",
		"file:///tmp/a.csv":  "file",
		"s3://bucket/a.csv":  "s3",
		"S3A://bucket/a.csv": "s3a",
		"gs://bucket/a.csv":  "gs",
		"://missing-scheme":  "file",
	}

	for location, want := range tests {
		if got := Scheme(location); got != want {
			t.Errorf("Scheme(%q) = %s, want %s", location, got, want)
		}
	}
}

func TestRouter_Backend(t *testing.T) {
	local := NewLocalFileIO()
	remote := NewS3FileIOFromClient(newFakeS3())
	router := NewRouter(local, remote)

	b, err := router.Backend("/tmp/a.csv")
	if err != nil {
		t.Fatalf("Backend failed: %v", err)
	}
	if b != FileIO(local) {
		t.Errorf("local path routed to %T", b)
	}

	b, err = router.Backend("s3a://bucket/a.csv")
	if err != nil {
		t.Fatalf("Backend failed: %v", err)
	}
	if b != FileIO(remote) {
		t.Errorf("s3a path routed to %T", b)
	}

	if _, err := router.Backend("gs://bucket/a.csv"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("gs path: got %v, want ErrUnsupportedScheme", err)
	}
}

func TestRouter_WithoutS3(t *testing.T) {
	router := NewRouter(nil, nil)

	if _, err := router.Open(context.Background(), "s3://bucket/a.csv"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("s3 path without S3: got %v, want ErrUnsupportedScheme", err)
	}
}

func TestRouter_LocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	router := NewRouter(NewLocalFileIO().WithBasePath(tmpDir), nil)

	outputFile, err := router.Create(ctx, "out/data.csv")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	writer, err := outputFile.Create(ctx)
	if err != nil {
		t.Fatalf("Create writer failed: %v", err)
	}
	if _, err := writer.Write([]byte("a\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "out", "data.csv")); err != nil {
		t.Fatalf("Stat failed: %v", err)
	}

	exists, err := router.Exists(ctx, "out/data.csv")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("File should exist")
	}

	if err := router.Delete(ctx, "out/data.csv"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}

func TestJoin(t *testing.T) {
	tests := []struct{ dir, name, want string }{
		{"s3://bucket/out", "x.parquet", "s3://bucket/out/x.parquet"},
		{"s3://bucket/out/", "x.parquet", "s3://bucket/out/x.parquet"},
		{"", "x.parquet", "x.parquet"},
	}
	for _, tt := range tests {
		if got := Join(tt.dir, tt.name); got != tt.want {
			t.Errorf("Join(%q, %q) = %s, want %s", tt.dir, tt.name, got, tt.want)
		}
	}
}
