package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Disk stores images in a local directory that the API serves statically.
// It is the fallback media host when no Cloudinary account is configured.
type Disk struct {
	dir     string
	baseURL string
}

// NewDisk creates dir if needed. baseURL is the public URL prefix under
// which dir is served, e.g. "http://localhost:8080/public/uploads".
func NewDisk(dir, baseURL string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media.NewDisk: %w", err)
	}
	return &Disk{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload writes img under a random name that keeps the original extension.
func (d *Disk) Upload(ctx context.Context, img Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := uuid.NewString() + safeExt(img.Filename)
	if err := os.WriteFile(filepath.Join(d.dir, name), img.Data, 0o644); err != nil {
		return "", fmt.Errorf("media.Disk.Upload: %w", err)
	}
	return d.baseURL + "/" + name, nil
}

// safeExt returns the lower-cased extension of filename when it is short and
// alphanumeric, and "" otherwise.
func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
