// Package images stores profile pictures on local disk and derives their
// BlurHash placeholders.
package images

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when no picture is stored for an id.
var ErrNotFound = errors.New("image not found")

// extensions maps stored content types to file extensions.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Storage keeps one image per owner id under {basePath}/{subdir}.
// Saving replaces whatever the owner had before, whatever its format.
type Storage struct {
	dir string
	mu  sync.RWMutex
}

// NewStorage creates the storage directory if needed.
// Example: NewStorage("/data", "avatars") -> /data/avatars/.
func NewStorage(basePath, subdir string) (*Storage, error) {
	if basePath == "" {
		return nil, errors.New("base path cannot be empty")
	}
	if subdir == "" {
		return nil, errors.New("subdirectory cannot be empty")
	}

	dir := filepath.Join(basePath, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", subdir, err)
	}
	return &Storage{dir: dir}, nil
}

// Save stores data for id, removing any earlier image in another format.
func (s *Storage) Save(id, contentType string, data []byte) error {
	if id == "" {
		return errors.New("ID cannot be empty")
	}
	if len(data) == 0 {
		return errors.New("image data cannot be empty")
	}
	ext, ok := extensions[contentType]
	if !ok {
		return fmt.Errorf("unsupported content type %q", contentType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range extensions {
		if other == ext {
			continue
		}
		if err := os.Remove(s.path(id, other)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove previous image: %w", err)
		}
	}

	// Write to a temp file first so readers never see a partial image.
	tmp := s.path(id, ext) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	if err := os.Rename(tmp, s.path(id, ext)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to move image file: %w", err)
	}
	return nil
}

// Get returns the stored image and its content type.
func (s *Storage) Get(id string) ([]byte, string, error) {
	if id == "" {
		return nil, "", ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for contentType, ext := range extensions {
		//#nosec G304 -- path is built from a generated id inside the storage dir
		data, err := os.ReadFile(s.path(id, ext))
		if err == nil {
			return data, contentType, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("failed to read image file: %w", err)
		}
	}
	return nil, "", ErrNotFound
}

// Exists checks if an image exists for id.
func (s *Storage) Exists(id string) bool {
	_, _, err := s.Get(id)
	return err == nil
}

// Delete removes the image for id. Deleting a missing image is not an error.
func (s *Storage) Delete(id string) error {
	if id == "" {
		return errors.New("ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ext := range extensions {
		if err := os.Remove(s.path(id, ext)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete image file: %w", err)
		}
	}
	return nil
}

func (s *Storage) path(id, ext string) string {
	return filepath.Join(s.dir, filepath.Base(id)+ext)
}
