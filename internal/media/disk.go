package media

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// DiskStore keeps objects as plain files under a base directory.
type DiskStore struct {
	base string
}

func NewDiskStore(base string) (*DiskStore, error) {
	if err := os.MkdirAll(base, 0755); err != nil {
		return nil, err
	}
	return &DiskStore{base: base}, nil
}

func (d *DiskStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	full := filepath.Join(d.base, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}

	f, err := os.Create(full)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, r)
	return err
}

func (d *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(d.base, filepath.FromSlash(key)))
}
