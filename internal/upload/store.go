package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"restaurant_site/pkg/cloudinary"
)

// Store persists uploaded media and returns the reference saved on the row.
type Store interface {
	Save(ctx context.Context, relPath string, file io.Reader) (string, error)
}

// LocalStore writes files below Root and returns the relative path.
type LocalStore struct {
	Root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{Root: root}
}

func (s *LocalStore) Save(ctx context.Context, relPath string, file io.Reader) (string, error) {
	clean := path.Clean(relPath)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("refusing to write outside media root: %q", relPath)
	}

	dest := filepath.Join(s.Root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	if _, err := io.Copy(f, file); err != nil {
		f.Close()
		os.Remove(dest)
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to close media file: %w", err)
	}
	return clean, nil
}

// CloudinaryStore uploads into a folder named after the upload category and
// returns the delivery URL.
type CloudinaryStore struct {
	client cloudinary.Client
}

func NewCloudinaryStore(client cloudinary.Client) *CloudinaryStore {
	return &CloudinaryStore{client: client}
}

func (s *CloudinaryStore) Save(ctx context.Context, relPath string, file io.Reader) (string, error) {
	folder, name := path.Split(path.Clean(relPath))
	publicID := strings.TrimSuffix(name, path.Ext(name))

	url, _, err := s.client.UploadImage(ctx, file, strings.TrimSuffix(folder, "/"), publicID)
	if err != nil {
		return "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	return url, nil
}
