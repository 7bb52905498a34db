// Package storage holds listing images on disk and hands out the public
// URLs the catalog embeds. Paths are bucket-relative ("properties/...")
// so records stay valid if the store moves behind a CDN later.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrUnsupportedImage is returned when an upload is not a recognized image
// format.
var ErrUnsupportedImage = errors.New("unsupported image format")

// allowed upload types; everything else is rejected before touching disk.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageStore is a disk-backed object store for property images.
type ImageStore struct {
	baseDir   string
	publicURL string
	now       func() time.Time
}

// Option customizes an ImageStore.
type Option func(*ImageStore)

// WithClock overrides the timestamp source used in generated names.
func WithClock(now func() time.Time) Option {
	return func(s *ImageStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewImageStore creates a store rooted at baseDir. publicURL is the URL
// prefix the files are served under (e.g. "/uploads").
func NewImageStore(baseDir, publicURL string, opts ...Option) (*ImageStore, error) {
	baseDir = filepath.Clean(strings.TrimSpace(baseDir))
	if baseDir == "" || baseDir == "." {
		return nil, errors.New("storage base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure storage directory: %w", err)
	}

	store := &ImageStore{
		baseDir:   baseDir,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Upload sniffs and stores an image under the given folder, returning the
// bucket-relative path and its public URL. Names are generated, never
// caller-supplied, so uploads cannot collide or escape the store.
func (s *ImageStore) Upload(folder string, data io.Reader) (string, string, error) {
	folder = sanitizeFolder(folder)
	if folder == "" {
		folder = "properties"
	}

	payload, err := io.ReadAll(data)
	if err != nil {
		return "", "", fmt.Errorf("read upload: %w", err)
	}

	kind := mimetype.Detect(payload)
	ext, ok := allowedImageTypes[kind.String()]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedImage, kind.String())
	}

	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), shortID(), ext)
	relPath := path.Join(folder, name)

	dir := filepath.Join(s.baseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("ensure upload folder: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), payload, 0o644); err != nil {
		return "", "", fmt.Errorf("write upload: %w", err)
	}

	return relPath, s.PublicURL(relPath), nil
}

// PublicURL maps a stored path onto its serving URL.
func (s *ImageStore) PublicURL(storedPath string) string {
	return s.publicURL + "/" + strings.TrimLeft(path.Clean(storedPath), "/")
}

// Delete removes a stored image by its bucket-relative path. Deleting a
// path that is already gone is not an error.
func (s *ImageStore) Delete(storedPath string) error {
	cleaned, err := s.resolve(storedPath)
	if err != nil {
		return err
	}
	if err := os.Remove(cleaned); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// Dir exposes the base directory for the static file server.
func (s *ImageStore) Dir() string {
	return s.baseDir
}

// resolve maps a stored path onto disk, refusing anything that would
// escape the base directory.
func (s *ImageStore) resolve(storedPath string) (string, error) {
	cleaned := path.Clean("/" + storedPath)
	if cleaned == "/" {
		return "", errors.New("empty storage path")
	}
	full := filepath.Join(s.baseDir, filepath.FromSlash(cleaned))
	if !strings.HasPrefix(full, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("storage path %q escapes the store", storedPath)
	}
	return full, nil
}

func sanitizeFolder(folder string) string {
	folder = strings.Trim(path.Clean("/"+strings.TrimSpace(folder)), "/")
	if strings.Contains(folder, "..") {
		return ""
	}
	return folder
}

func shortID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
