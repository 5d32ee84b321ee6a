package storage

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
)

// LocalStore implements Store on a local directory, one subdirectory per
// container. Blob names may contain slashes; they become nested paths.
type LocalStore struct {
	root string
}

// NewLocalStore creates a local filesystem store rooted at dir.
func NewLocalStore(dir string) (*LocalStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("local storage: empty root directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: create root: %w", err)
	}
	return &LocalStore{root: dir}, nil
}

func (l *LocalStore) blobPath(container, name string) (string, error) {
	if strings.TrimSpace(container) == "" {
		return "", errors.New("local storage: empty container")
	}
	if strings.TrimSpace(name) == "" {
		return "", errors.New("local storage: empty blob name")
	}
	return filepath.Join(l.root, container, filepath.FromSlash(name)), nil
}

// Upload copies a local file into the store.
func (l *LocalStore) Upload(ctx context.Context, container, name, sourcePath string) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("local storage: open source: %w", err)
	}
	defer source.Close()
	return l.write(ctx, container, name, source)
}

// Put writes raw bytes into the store.
func (l *LocalStore) Put(ctx context.Context, container, name string, data []byte) error {
	return l.write(ctx, container, name, strings.NewReader(string(data)))
}

func (l *LocalStore) write(ctx context.Context, container, name string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := l.blobPath(container, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("local storage: create container dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("local storage: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("local storage: write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("local storage: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("local storage: finalize blob: %w", err)
	}
	return nil
}

// Get reads a blob's full contents.
func (l *LocalStore) Get(ctx context.Context, container, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.blobPath(container, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s/%s", ErrBlobNotFound, container, name)
	}
	if err != nil {
		return nil, fmt.Errorf("local storage: read blob: %w", err)
	}
	return data, nil
}

// Download copies a blob to a local file.
func (l *LocalStore) Download(ctx context.Context, container, name, destPath string) error {
	data, err := l.Get(ctx, container, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("local storage: create dest dir: %w", err)
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return fmt.Errorf("local storage: write dest: %w", err)
	}
	return nil
}

// List returns blob names in a container matching prefix, in lexical order.
func (l *LocalStore) List(ctx context.Context, container, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	containerDir := filepath.Join(l.root, container)
	var names []string
	err := filepath.WalkDir(containerDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".upload-") {
			return nil
		}
		rel, err := filepath.Rel(containerDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("local storage: list: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a blob. Deleting a missing blob is not an error.
func (l *LocalStore) Delete(ctx context.Context, container, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := l.blobPath(container, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local storage: delete blob: %w", err)
	}
	return nil
}

// Copy duplicates a blob within the store.
func (l *LocalStore) Copy(ctx context.Context, srcContainer, srcName, dstContainer, dstName string) error {
	data, err := l.Get(ctx, srcContainer, srcName)
	if err != nil {
		return err
	}
	return l.Put(ctx, dstContainer, dstName, data)
}
