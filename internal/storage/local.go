package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound indicates no blob exists at the requested path.
var ErrNotFound = errors.New("storage: object not found")

// LocalStore keeps blobs on the local filesystem and serves them through the
// application's own blob route. URLs are composed from a configured base, so
// resolution is deterministic.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore prepares a filesystem-backed store rooted at the given
// directory. baseURL is the public prefix blob paths are appended to, e.g.
// "https://pixlparade.example.com".
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("storage: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}

	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}, nil
}

// Upload writes the blob atomically: a temp file in the target directory is
// renamed over the destination, so concurrent writers of the same
// content-addressed path can only ever leave identical complete bytes behind.
func (s *LocalStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	if s == nil {
		return errors.New("storage: local store not initialised")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	target, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("storage: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("storage: write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: close blob: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: publish blob: %w", err)
	}
	return nil
}

// PublicURL joins the configured base with the blob path.
func (s *LocalStore) PublicURL(path string) string {
	return s.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Read loads a stored blob, returning ErrNotFound when absent.
func (s *LocalStore) Read(ctx context.Context, path string) ([]byte, error) {
	if s == nil {
		return nil, errors.New("storage: local store not initialised")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read blob: %w", err)
	}
	return data, nil
}

// resolve maps a blob path onto the root, rejecting traversal outside it.
func (s *LocalStore) resolve(path string) (string, error) {
	for _, segment := range strings.Split(path, "/") {
		if segment == ".." {
			return "", fmt.Errorf("storage: invalid path %q", path)
		}
	}

	cleaned := filepath.Clean("/" + strings.TrimLeft(path, "/"))
	if cleaned == "/" {
		return "", fmt.Errorf("storage: invalid path %q", path)
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}
