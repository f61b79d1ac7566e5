// Package actions implements the side-effecting wallpaper actions shared by
// the terminal UI, the web API and the CLI.
package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"

	"github.com/five82/wallfeed/internal/download"
	"github.com/five82/wallfeed/internal/feed"
	"github.com/five82/wallfeed/internal/wallpaper"
)

// Marker records successful downloads. *state.Store implements it.
type Marker interface {
	MarkDownloaded(id string) bool
}

// Actions bundles the collaborators the actions need.
type Actions struct {
	marker    Marker
	downloads *download.Downloader
	staging   *download.Downloader
	setter    wallpaper.Setter
	copyText  func(string) error
	log       *logrus.Entry
}

// Options configures New.
type Options struct {
	Marker Marker
	Source download.Opener
	// DownloadDir receives user downloads.
	DownloadDir string
	// CacheDir stages images handed to the wallpaper setter.
	CacheDir string
	Setter   wallpaper.Setter
	// Clipboard receives shared links. Nil uses the system clipboard.
	Clipboard func(string) error
	Logger    *logrus.Entry
}

// New builds Actions from opts.
func New(opts Options) *Actions {
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	copyText := opts.Clipboard
	if copyText == nil {
		copyText = systemClipboard
	}
	return &Actions{
		marker:    opts.Marker,
		downloads: download.New(opts.Source, opts.DownloadDir),
		staging:   download.New(opts.Source, opts.CacheDir),
		setter:    opts.Setter,
		copyText:  copyText,
		log:       log,
	}
}

// Download saves rec into the download directory and marks it downloaded.
// Nothing is marked when the download fails.
func (a *Actions) Download(ctx context.Context, rec feed.Record) (string, error) {
	path, err := a.downloads.Save(ctx, rec)
	if err != nil {
		a.log.WithError(err).WithField("id", rec.ID).Warn("download failed")
		return "", err
	}
	if a.marker != nil {
		a.marker.MarkDownloaded(rec.ID)
	}
	a.log.WithFields(logrus.Fields{"id": rec.ID, "path": path}).Info("downloaded wallpaper")
	return path, nil
}

// SetWallpaper stages rec in the cache directory and applies it to target.
// Setting a wallpaper does not count as a download.
func (a *Actions) SetWallpaper(ctx context.Context, rec feed.Record, target wallpaper.Target) error {
	if a.setter == nil {
		return fmt.Errorf("wallpaper setter is not configured")
	}
	path, err := a.staging.Save(ctx, rec)
	if err != nil {
		a.log.WithError(err).WithField("id", rec.ID).Warn("stage wallpaper failed")
		return err
	}
	if err := a.setter.Set(ctx, path, target); err != nil {
		a.log.WithError(err).WithFields(logrus.Fields{"id": rec.ID, "target": target}).Warn("set wallpaper failed")
		return fmt.Errorf("set wallpaper: %w", err)
	}
	a.log.WithFields(logrus.Fields{"id": rec.ID, "target": target}).Info("wallpaper applied")
	return nil
}

// Share copies the image link of rec to the clipboard and returns it.
// Sharing never changes the favorites or downloaded sets.
func (a *Actions) Share(_ context.Context, rec feed.Record) (string, error) {
	link := strings.TrimSpace(rec.URL)
	if link == "" {
		return "", fmt.Errorf("record %q has no url", rec.ID)
	}
	if err := a.copyText(link); err != nil {
		a.log.WithError(err).WithField("id", rec.ID).Warn("share failed")
		return "", fmt.Errorf("copy link: %w", err)
	}
	a.log.WithFields(logrus.Fields{"id": rec.ID, "url": link}).Info("shared wallpaper link")
	return link, nil
}

func systemClipboard(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}
