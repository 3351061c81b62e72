package objectstore

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/guttosm/peakpulse/internal/errors"
)

// LocalStore serves objects from a directory; keys are slash-separated paths
// relative to Root. It backs the local binding.
type LocalStore struct {
	Root string
}

// NewLocalStore returns a LocalStore rooted at root.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{Root: root}
}

// GetData reads the CSV object at key.
func (s *LocalStore) GetData(ctx context.Context, key string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	return readRows(f, key)
}

// ListKeys returns every regular file under Root whose key starts with
// prefix, in lexical order.
func (s *LocalStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %q under %s: %w", prefix, s.Root, err)
	}
	sort.Strings(keys)
	return keys, nil
}

// resolve maps key to a path inside Root, rejecting keys that escape it.
func (s *LocalStore) resolve(key string) (string, error) {
	root := filepath.Clean(s.Root)
	path := filepath.Join(root, filepath.FromSlash(key))
	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrCodeInvalidSource, "key %q escapes store root", key)
	}
	return path, nil
}
