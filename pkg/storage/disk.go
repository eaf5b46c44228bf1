// Package storage keeps uploaded files such as profile pictures.
//
// Two drivers are available:
//   - "local": a directory on the device (default)
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2)
//
// The composition root opens one disk from config:
//
//	disk, err := storage.Open(storage.FromConfig())
//	err = disk.Put(ctx, "avatars/7.jpg", file)
//	uri := disk.URL("avatars/7.jpg")
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shashiranjanraj/storefront/config"
)

// ErrNotExist is returned by Get for a missing path.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is the driver interface.
type Disk interface {
	// Put writes r to path, replacing any existing file.
	Put(ctx context.Context, path string, r io.Reader) error
	// Get opens the file at path. The caller closes it.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Exists reports whether path holds a file.
	Exists(ctx context.Context, path string) (bool, error)
	// Delete removes path. A missing file is not an error.
	Delete(ctx context.Context, path string) error
	// URL is the address an image loader can fetch path from.
	URL(path string) string
}

// Config selects and configures a driver.
type Config struct {
	Driver string // "local" | "s3"

	Root    string // local: directory
	BaseURL string // URL prefix; for S3 defaults to the bucket endpoint

	Bucket   string
	Region   string
	Key      string
	Secret   string
	Endpoint string // non-AWS endpoints; enables path-style addressing
}

// FromConfig reads the STORAGE_* and S3_* settings.
func FromConfig() Config {
	return Config{
		Driver:   config.StorageDefault(),
		Root:     config.StorageLocalRoot(),
		BaseURL:  config.StorageURL(),
		Bucket:   config.StorageS3Bucket(),
		Region:   config.StorageS3Region(),
		Key:      config.StorageS3Key(),
		Secret:   config.StorageS3Secret(),
		Endpoint: config.StorageS3Endpoint(),
	}
}

// Open builds the configured disk.
func Open(cfg Config) (Disk, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.Root, cfg.BaseURL)
	case "s3":
		if cfg.BaseURL == config.StorageURL() {
			cfg.BaseURL = config.StorageS3URL()
		}
		return NewS3(context.Background(), cfg)
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q (supported: local, s3)", cfg.Driver)
	}
}
