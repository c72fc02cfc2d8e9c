package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PhotoStore persists player photos and returns the public URL they will be
// served under. The rest of the system only ever sees that URL.
type PhotoStore interface {
	Save(filename string, r io.Reader) (string, error)
}

type diskPhotoStore struct {
	dir     string
	baseURL string
}

// NewDiskPhotoStore stores photos under dir, served back under baseURL
// (wired to a static route by main).
func NewDiskPhotoStore(dir, baseURL string) (PhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &diskPhotoStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *diskPhotoStore) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".png"
	}
	name := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return s.baseURL + "/" + name, nil
}
