package io

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalFileIO_CreateAndOpen(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	fileIO := NewLocalFileIO()
	testPath := filepath.Join(tmpDir, "test.csv")
	testContent := []byte("a,b\n1,2\n")

	outputFile, err := fileIO.Create(ctx, testPath)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	writer, err := outputFile.Create(ctx)
	if err != nil {
		t.Fatalf("Create writer failed: %v", err)
	}

	n, err := writer.Write(testContent)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != len(testContent) {
		t.Errorf("Write n = %d, want %d", n, len(testContent))
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Close writer failed: %v", err)
	}

	inputFile, err := fileIO.Open(ctx, testPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	length, err := inputFile.Length(ctx)
	if err != nil {
		t.Fatalf("Length failed: %v", err)
	}
	if length != int64(len(testContent)) {
		t.Errorf("Length = %d, want %d", length, len(testContent))
	}

	reader, err := inputFile.Open(ctx)
	if err != nil {
		t.Fatalf("Open reader failed: %v", err)
	}
	defer reader.Close()

	readContent, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(readContent, testContent) {
		t.Errorf("Content mismatch: got %s, want %s", readContent, testContent)
	}
}

func TestLocalFileIO_CreateExclusive(t *testing.T) {
	ctx := context.Background()
	testPath := filepath.Join(t.TempDir(), "taken.parquet")

	if err := os.WriteFile(testPath, []byte("x"), 0644); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	outputFile, err := NewLocalFileIO().Create(ctx, testPath)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := outputFile.Create(ctx); !errors.Is(err, fs.ErrExist) {
		t.Errorf("Create on existing file: got %v, want fs.ErrExist", err)
	}
}

func TestLocalFileIO_OpenMissing(t *testing.T) {
	ctx := context.Background()

	inputFile, err := NewLocalFileIO().Open(ctx, filepath.Join(t.TempDir(), "missing.png"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if _, err := inputFile.Open(ctx); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open missing: got %v, want fs.ErrNotExist", err)
	}

	exists, err := inputFile.Exists(ctx)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("File should not exist")
	}
}

func TestLocalFileIO_Delete(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	fileIO := NewLocalFileIO()
	testPath := filepath.Join(tmpDir, "delete_test.txt")

	if err := os.WriteFile(testPath, []byte("test"), 0644); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	if err := fileIO.Delete(ctx, testPath); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := os.Stat(testPath); !os.IsNotExist(err) {
		t.Error("File should be deleted")
	}
}

func TestLocalFileIO_Exists(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	fileIO := NewLocalFileIO()
	existingPath := filepath.Join(tmpDir, "exists.txt")
	nonExistingPath := filepath.Join(tmpDir, "not_exists.txt")

	if err := os.WriteFile(existingPath, []byte("test"), 0644); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	exists, err := fileIO.Exists(ctx, existingPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("File should exist")
	}

	exists, err = fileIO.Exists(ctx, "file://"+nonExistingPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("File should not exist")
	}
}

func TestLocalFileIO_BasePath(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, "data.csv"), []byte("a\n"), 0644); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	fileIO := NewLocalFileIO().WithBasePath(tmpDir)

	inputFile, err := fileIO.Open(ctx, "data.csv")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "data.csv"); inputFile.Location() != want {
		t.Errorf("Location = %s, want %s", inputFile.Location(), want)
	}

	// absolute paths ignore the base path
	other := filepath.Join(t.TempDir(), "x.csv")
	inputFile, err = fileIO.Open(ctx, other)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if inputFile.Location() != other {
		t.Errorf("Location = %s, want %s", inputFile.Location(), other)
	}
}

func TestLocalFileIO_CreateDirectories(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	fileIO := NewLocalFileIO()
	nestedPath := filepath.Join(tmpDir, "a", "b", "c", "out.avro")

	outputFile, err := fileIO.Create(ctx, nestedPath)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	writer, err := outputFile.CreateOverwrite(ctx)
	if err != nil {
		t.Fatalf("CreateOverwrite failed: %v", err)
	}

	if _, err := writer.Write([]byte("test")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := os.Stat(nestedPath); os.IsNotExist(err) {
		t.Error("File should exist in nested directory")
	}
}

func TestLocalFileIO_Overwrite(t *testing.T) {
	ctx := context.Background()
	testPath := filepath.Join(t.TempDir(), "multi_write.csv")
	fileIO := NewLocalFileIO()

	for _, content := range [][]byte{[]byte("First content"), []byte("Second")} {
		outputFile, err := fileIO.Create(ctx, testPath)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		writer, err := outputFile.CreateOverwrite(ctx)
		if err != nil {
			t.Fatalf("CreateOverwrite failed: %v", err)
		}
		if _, err := writer.Write(content); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}

	data, err := os.ReadFile(testPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "Second" {
		t.Errorf("Content = %s, want Second", data)
	}
}

func TestOpenSeekable_Local(t *testing.T) {
	ctx := context.Background()
	testPath := filepath.Join(t.TempDir(), "seek.bin")
	if err := os.WriteFile(testPath, []byte("0123456789"), 0644); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	inputFile, err := NewLocalFileIO().Open(ctx, testPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	r, err := OpenSeekable(ctx, inputFile)
	if err != nil {
		t.Fatalf("OpenSeekable failed: %v", err)
	}
	defer r.Close()

	if _, ok := r.(*os.File); !ok {
		t.Errorf("OpenSeekable returned %T, want *os.File", r)
	}

	buf := make([]byte, 3)
	if _, err := r.ReadAt(buf, 4); err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if string(buf) != "456" {
		t.Errorf("ReadAt = %s, want 456", buf)
	}
}
