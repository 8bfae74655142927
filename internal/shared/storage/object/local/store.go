package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"investor-backend/internal/shared/storage/object"
)

// Scheme is the locator scheme for objects written by this store.
const Scheme = "file"

// Store implements ObjectStore using the local filesystem.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Put writes the reader to <baseDir>/<bucket>/<key>. The body lands in a temp file in the
// same directory and is renamed into place after a sync, so a failed write leaves no object.
func (s *Store) Put(ctx context.Context, bucket, key, _ string, r io.Reader) (object.Locator, int64, error) {
	if err := ctx.Err(); err != nil {
		return object.Locator{}, 0, err
	}

	fullPath, err := s.resolve(bucket, key)
	if err != nil {
		return object.Locator{}, 0, err
	}
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return object.Locator{}, 0, fmt.Errorf("mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return object.Locator{}, 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		return object.Locator{}, 0, fmt.Errorf("write body: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return object.Locator{}, 0, fmt.Errorf("sync file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return object.Locator{}, 0, fmt.Errorf("chmod file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return object.Locator{}, 0, fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		return object.Locator{}, 0, fmt.Errorf("rename file: %w", err)
	}
	committed = true

	return object.Locator{Scheme: Scheme, Bucket: bucket, Key: key}, written, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, loc object.Locator) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if loc.Scheme != Scheme {
		return nil, fmt.Errorf("local store cannot open %s locator", loc.Scheme)
	}

	fullPath, err := s.resolve(loc.Bucket, loc.Key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", object.ErrNotFound, loc)
		}
		return nil, err
	}
	return f, nil
}

func (s *Store) resolve(bucket, key string) (string, error) {
	if strings.TrimSpace(bucket) == "" || strings.ContainsAny(bucket, `/\`) || bucket == "." || bucket == ".." {
		return "", fmt.Errorf("invalid bucket %q", bucket)
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}
	return filepath.Join(s.baseDir, bucket, clean), nil
}

var _ object.ObjectStore = (*Store)(nil)
