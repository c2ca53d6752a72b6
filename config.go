package dataload

import (
	"log/slog"
	"slices"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/BrobridgeOrg/go-dataload/frame"
)

// StorageType represents supported storage backends.
type StorageType string

const (
	// StorageLocal represents local filesystem storage.
	StorageLocal StorageType = "local"
	// StorageS3 represents Amazon S3 storage. Plain paths stay local.
	StorageS3 StorageType = "s3"
)

// Config holds the client configuration.
type Config struct {
	// Storage configuration
	StorageType StorageType
	S3Config    *S3Config
	LocalConfig *LocalConfig

	// Arrow memory for every table the client builds
	Allocator memory.Allocator

	// CSV parsing
	CSVComma      rune
	CSVNullValues []string

	Logger *slog.Logger
}

// S3Config holds S3-specific configuration.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Endpoint        string // For MinIO, LocalStack, etc.
	ForcePathStyle  bool
}

// LocalConfig holds local filesystem configuration.
type LocalConfig struct {
	BasePath string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		StorageType:   StorageLocal,
		Allocator:     memory.DefaultAllocator,
		CSVComma:      ',',
		CSVNullValues: slices.Clone(frame.DefaultNullValues),
		Logger:        slog.New(slog.DiscardHandler),
	}
}

// Option is a functional option for client configuration.
type Option func(*Config)

// WithS3 configures S3 storage backend.
func WithS3(cfg *S3Config) Option {
	return func(c *Config) {
		c.StorageType = StorageS3
		c.S3Config = cfg
	}
}

// WithLocalStorage configures local filesystem storage. Relative paths are
// resolved against basePath.
func WithLocalStorage(basePath string) Option {
	return func(c *Config) {
		c.StorageType = StorageLocal
		c.LocalConfig = &LocalConfig{BasePath: basePath}
	}
}

// WithAllocator sets the Arrow allocator used for tables.
func WithAllocator(mem memory.Allocator) Option {
	return func(c *Config) {
		c.Allocator = mem
	}
}

// WithCSVComma sets the CSV field delimiter.
func WithCSVComma(r rune) Option {
	return func(c *Config) {
		c.CSVComma = r
	}
}

// WithCSVNullValues replaces the set of CSV cell contents read as null.
func WithCSVNullValues(values ...string) Option {
	return func(c *Config) {
		c.CSVNullValues = values
	}
}

// WithLogger sets the logger. Operations log at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
