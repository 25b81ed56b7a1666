// Package avatar stores uploaded profile images on disk and hands back the
// public reference persisted on the account.
package avatar

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PublicPrefix is the static path prefix avatars are served under.
const PublicPrefix = "/uploads/avatars"

var ErrNotImage = errors.New("avatar must be an image")

// extByType maps accepted media types to canonical extensions.
var extByType = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store writes avatars under a base directory.
type Store struct {
	dir string
}

// NewStore creates the base directory if missing.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("avatar dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the base directory, for wiring the static file route.
func (s *Store) Dir() string { return s.dir }

// Save rejects non-image uploads, writes the bytes under a random
// collision-resistant filename and returns the public reference. The
// original filename only contributes a fallback extension; it never reaches
// the filesystem.
func (s *Store) Save(data []byte, originalFilename, contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return "", ErrNotImage
	}
	ext, ok := extByType[mediaType]
	if !ok {
		ext = strings.ToLower(filepath.Ext(filepath.Base(originalFilename)))
		if ext == "" {
			ext = ".img"
		}
	}
	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}
	return PublicPrefix + "/" + name, nil
}
