// Package download saves wallpaper images to disk.
package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/five82/wallfeed/internal/feed"
)

// Opener streams the image behind a record. *feed.Client implements it.
type Opener interface {
	Open(ctx context.Context, rec feed.Record) (io.ReadCloser, error)
}

// Downloader writes images into a directory. Each download lands in a
// uniquely named ".part" file and is renamed into place once complete, so a
// failed download never leaves a truncated image under the final name.
type Downloader struct {
	src Opener
	dir string
}

// New returns a Downloader saving into dir.
func New(src Opener, dir string) *Downloader {
	return &Downloader{src: src, dir: dir}
}

// Dir returns the target directory.
func (d *Downloader) Dir() string {
	return d.dir
}

// Save downloads rec and returns the path of the written file.
func (d *Downloader) Save(ctx context.Context, rec feed.Record) (string, error) {
	if d == nil || d.src == nil {
		return "", fmt.Errorf("downloader is not configured")
	}
	if strings.TrimSpace(d.dir) == "" {
		return "", fmt.Errorf("download dir is empty")
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	body, err := d.src.Open(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", rec.ID, err)
	}
	defer func() { _ = body.Close() }()

	tmp := filepath.Join(d.dir, "."+uuid.NewString()+".part")
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(file, body); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("download %s: %w", rec.ID, err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	final := filepath.Join(d.dir, FileName(rec))
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("commit download: %w", err)
	}
	return final, nil
}

// FileName returns the on-disk name for rec: its display name with path
// separators replaced, plus ".jpg".
func FileName(rec feed.Record) string {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		name = "wallpaper-" + rec.ID
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, name)
	name = strings.TrimLeft(name, ".")
	if name == "" {
		name = "wallpaper"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".jpg") {
		name += ".jpg"
	}
	return name
}
