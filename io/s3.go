package io

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config holds S3 configuration.
type S3Config struct {
	Region          string
	Endpoint        string // For MinIO or other S3-compatible services
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	ForcePathStyle  bool // Required for MinIO
}

// S3API is the subset of the S3 client used by S3FileIO.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3FileIO implements FileIO for S3.
type S3FileIO struct {
	client S3API
}

// NewS3FileIO creates a new S3 file I/O handler.
func NewS3FileIO(ctx context.Context, cfg *S3Config) (*S3FileIO, error) {
	if cfg == nil {
		cfg = &S3Config{}
	}

	var opts []func(*config.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		creds := credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			cfg.SessionToken,
		)
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)

	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return NewS3FileIOFromClient(s3.NewFromConfig(awsCfg, s3Opts...)), nil
}

// NewS3FileIOFromClient wraps an existing S3 client.
func NewS3FileIOFromClient(client S3API) *S3FileIO {
	return &S3FileIO{client: client}
}

// parseS3URI parses an S3 URI into bucket and key.
func parseS3URI(uri string) (bucket, key string, err error) {
	// Handle both s3:// and s3a:// URIs
	uri = strings.TrimPrefix(uri, "s3a://")
	uri = strings.TrimPrefix(uri, "s3://")

	u, err := url.Parse("s3://" + uri)
	if err != nil {
		return "", "", fmt.Errorf("invalid S3 URI: %w", err)
	}

	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")

	if bucket == "" {
		return "", "", fmt.Errorf("missing bucket in S3 URI")
	}
	if key == "" {
		return "", "", fmt.Errorf("missing key in S3 URI")
	}

	return bucket, key, nil
}

func (s *S3FileIO) object(path string) (*s3Object, error) {
	bucket, key, err := parseS3URI(path)
	if err != nil {
		return nil, err
	}
	return &s3Object{client: s.client, bucket: bucket, key: key, path: path}, nil
}

// Open opens a file for reading.
func (s *S3FileIO) Open(ctx context.Context, path string) (InputFile, error) {
	obj, err := s.object(path)
	if err != nil {
		return nil, err
	}
	return &s3InputFile{obj}, nil
}

// Create creates a new file for writing.
func (s *S3FileIO) Create(ctx context.Context, path string) (OutputFile, error) {
	obj, err := s.object(path)
	if err != nil {
		return nil, err
	}
	return &s3OutputFile{obj}, nil
}

// Delete deletes a file.
func (s *S3FileIO) Delete(ctx context.Context, path string) error {
	obj, err := s.object(path)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(obj.bucket),
		Key:    aws.String(obj.key),
	})
	return err
}

// Exists checks if a file exists.
func (s *S3FileIO) Exists(ctx context.Context, path string) (bool, error) {
	obj, err := s.object(path)
	if err != nil {
		return false, err
	}
	return obj.exists(ctx)
}

// isNotFound reports whether err is an S3 missing object error.
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}

// s3Object addresses one object in a bucket.
type s3Object struct {
	client S3API
	bucket string
	key    string
	path   string
}

func (o *s3Object) Location() string {
	return o.path
}

func (o *s3Object) head(ctx context.Context) (*s3.HeadObjectOutput, error) {
	return o.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
	})
}

func (o *s3Object) exists(ctx context.Context) (bool, error) {
	_, err := o.head(ctx)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// s3InputFile implements InputFile for S3.
type s3InputFile struct {
	*s3Object
}

func (f *s3InputFile) Exists(ctx context.Context) (bool, error) {
	return f.exists(ctx)
}

func (f *s3InputFile) Length(ctx context.Context) (int64, error) {
	resp, err := f.head(ctx)
	if err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("%s: %w", f.path, fs.ErrNotExist)
		}
		return 0, err
	}
	if resp.ContentLength != nil {
		return *resp.ContentLength, nil
	}
	return 0, nil
}

func (f *s3InputFile) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", f.path, fs.ErrNotExist)
		}
		return nil, err
	}
	return resp.Body, nil
}

// s3OutputFile implements OutputFile for S3.
type s3OutputFile struct {
	*s3Object
}

func (f *s3OutputFile) Create(ctx context.Context) (io.WriteCloser, error) {
	exists, err := f.exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", f.path, fs.ErrExist)
	}
	return f.CreateOverwrite(ctx)
}

func (f *s3OutputFile) CreateOverwrite(ctx context.Context) (io.WriteCloser, error) {
	return &s3Writer{
		object: f.s3Object,
		buffer: new(bytes.Buffer),
		ctx:    ctx,
	}, nil
}

// s3Writer buffers writes and uploads on close.
type s3Writer struct {
	object *s3Object
	buffer *bytes.Buffer
	ctx    context.Context
	done   bool
}

func (w *s3Writer) Write(p []byte) (n int, err error) {
	if w.done {
		return 0, fs.ErrClosed
	}
	return w.buffer.Write(p)
}

// Abort drops the buffered data. Nothing is uploaded and a later Close is a no-op.
func (w *s3Writer) Abort() error {
	w.done = true
	w.buffer = nil
	return nil
}

func (w *s3Writer) Close() error {
	if w.done {
		return nil
	}
	w.done = true
	_, err := w.object.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.object.bucket),
		Key:    aws.String(w.object.key),
		Body:   bytes.NewReader(w.buffer.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", w.object.path, err)
	}
	return nil
}
