// Package media stores and retrieves complaint photo attachments. Two
// backends exist: a local-disk store for single-node deployments and a MinIO
// (S3-compatible) store for everything else.
package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type Store interface {
	// Save writes the object under key. size may be -1 when unknown.
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Open returns a reader for the object under key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// NewFromEnv selects the backend from MEDIA_DRIVER: "disk" (default) or
// "minio".
func NewFromEnv() (Store, error) {
	switch driver := os.Getenv("MEDIA_DRIVER"); driver {
	case "", "disk":
		dir := os.Getenv("MEDIA_DIR")
		if dir == "" {
			dir = "uploads"
		}
		return NewDiskStore(dir)
	case "minio":
		useSSL, _ := strconv.ParseBool(os.Getenv("MINIO_USE_SSL"))
		return NewMinioStore(
			os.Getenv("MINIO_ENDPOINT"),
			os.Getenv("MINIO_ACCESS_KEY"),
			os.Getenv("MINIO_SECRET_KEY"),
			os.Getenv("MINIO_BUCKET"),
			useSSL,
		)
	default:
		return nil, fmt.Errorf("unknown media driver %q", driver)
	}
}

// NewKey builds a fresh object key under prefix, keeping the original file
// extension. Keys are uuid-based so concurrent uploads of files with the same
// name never collide.
func NewKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return path.Join(prefix, uuid.NewString()+ext)
}
