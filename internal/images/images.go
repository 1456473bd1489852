// Package images abstracts the image host. The application only needs
// "bytes in, public URL out"; upload failure is never fatal to the
// calling flow.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUpload is wrapped by every failed upload so callers can degrade
// gracefully (publish without an image) instead of aborting.
var ErrUpload = errors.New("image upload failed")

// Host uploads an image and returns its public URL.
type Host interface {
	Upload(ctx context.Context, filename string, r io.Reader) (url string, err error)
}

// DirHost stores uploads in a local directory and serves them over HTTP
// under baseURL.
type DirHost struct {
	dir     string
	baseURL string
}

// NewDirHost creates the directory if needed. baseURL is the public
// prefix the files are served under, e.g. "http://localhost:3333/media".
func NewDirHost(dir, baseURL string) (*DirHost, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media dir: %w", err)
	}

	return &DirHost{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Upload writes the image under a fresh name and returns its URL.
func (h *DirHost) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	name := uuid.NewString() + safeExt(filename)

	f, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())

		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	return h.baseURL + "/" + name, nil
}

// Handler serves the uploaded files.
func (h *DirHost) Handler() http.Handler {
	return http.FileServer(http.Dir(h.dir))
}

func safeExt(filename string) string {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return ext
	default:
		return ""
	}
}
