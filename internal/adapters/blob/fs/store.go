// Package fs guarda blobs como archivos bajo un directorio raíz.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"horse-treatment-records/internal/ports/blob"
)

type Store struct {
	root string
}

var _ blob.Store = (*Store)(nil)

// New devuelve un store con raíz en root y crea el directorio si hace falta.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("blob fs root required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Driver() blob.Driver { return blob.DriverFS }

func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, contentType string) (blob.Info, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return blob.Info{}, err
	}
	dst := filepath.Join(s.root, filepath.FromSlash(k))
	if _, err := os.Stat(dst); err == nil {
		return blob.Info{}, fmt.Errorf("blob %s already exists", key)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return blob.Info{}, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-*")
	if err != nil {
		return blob.Info{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	size, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return blob.Info{}, err
	}
	if err := tmp.Close(); err != nil {
		return blob.Info{}, err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return blob.Info{}, err
	}

	return blob.Info{Key: k, Size: size, ContentType: contentType, LastModified: time.Now().UTC()}, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]blob.Info, error) {
	var out []blob.Info
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, blob.Info{Key: key, Size: fi.Size(), LastModified: fi.ModTime().UTC()})
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
