// file: internal/export/saver.go
// version: 1.1.0
// guid: 2e6a0d8c-5b91-4f47-a3c6-9d1e7b4f0a25

package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Format is the encoding of exported images.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ParseFormat accepts png, jpg and jpeg in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

func (f Format) encode(w io.Writer, img image.Image) error {
	if f == FormatJPEG {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 92})
	}
	return png.Encode(w, img)
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// DirSaver writes each image as its own file in a directory. Writes are
// paced by a token bucket and land atomically through a temp file.
type DirSaver struct {
	Dir     string
	Format  Format
	limiter *rate.Limiter
}

// NewDirSaver creates dir if needed.
func NewDirSaver(dir string, format Format, perSecond float64) (*DirSaver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &DirSaver{Dir: dir, Format: format, limiter: newLimiter(perSecond)}, nil
}

// Save implements Saver.
func (d *DirSaver) Save(ctx context.Context, filename string, img image.Image) (string, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailure, err)
	}

	final := filepath.Join(d.Dir, filepath.Base(filename))
	tmp, err := os.CreateTemp(d.Dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %w", ErrDownloadFailure, err)
	}
	defer os.Remove(tmp.Name())

	if err := d.Format.encode(tmp, img); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: encode %s: %w", ErrDownloadFailure, filename, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: close temp file: %w", ErrDownloadFailure, err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return "", fmt.Errorf("%w: move into place: %w", ErrDownloadFailure, err)
	}
	return final, nil
}

// ZipSaver collects every image into one archive, written next to its
// final path and moved into place by Close.
type ZipSaver struct {
	Path    string
	Format  Format
	limiter *rate.Limiter

	mu    sync.Mutex
	file  *os.File
	zw    *zip.Writer
	count int
}

// DefaultZipName names a bundle after the export date.
func DefaultZipName(t time.Time) string {
	return fmt.Sprintf("CVs-%s.zip", t.Format("2006-01-02"))
}

// NewZipSaver opens the archive for writing.
func NewZipSaver(path string, format Format, perSecond float64) (*ZipSaver, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path + ".partial")
	if err != nil {
		return nil, fmt.Errorf("create zip: %w", err)
	}
	return &ZipSaver{Path: path, Format: format, limiter: newLimiter(perSecond), file: f, zw: zip.NewWriter(f)}, nil
}

// Save implements Saver.
func (z *ZipSaver) Save(ctx context.Context, filename string, img image.Image) (string, error) {
	if err := z.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailure, err)
	}
	// Encode first so a failed image never leaves a partial entry behind.
	var buf bytes.Buffer
	if err := z.Format.encode(&buf, img); err != nil {
		return "", fmt.Errorf("%w: encode %s: %w", ErrDownloadFailure, filename, err)
	}

	z.mu.Lock()
	defer z.mu.Unlock()
	if z.zw == nil {
		return "", fmt.Errorf("%w: zip already closed", ErrDownloadFailure)
	}

	w, err := z.zw.CreateHeader(&zip.FileHeader{
		Name:     filepath.Base(filename),
		Method:   zip.Store,
		Modified: time.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("%w: add %s: %w", ErrDownloadFailure, filename, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return "", fmt.Errorf("%w: write %s: %w", ErrDownloadFailure, filename, err)
	}
	z.count++
	return z.Path + "#" + filepath.Base(filename), nil
}

// Count returns how many images were added.
func (z *ZipSaver) Count() int {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.count
}

// Close finishes the archive. An empty archive is discarded.
func (z *ZipSaver) Close() error {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.zw == nil {
		return nil
	}
	partial := z.file.Name()
	err := z.zw.Close()
	if cerr := z.file.Close(); err == nil {
		err = cerr
	}
	z.zw = nil
	if err != nil {
		os.Remove(partial)
		return fmt.Errorf("finish zip: %w", err)
	}
	if z.count == 0 {
		return os.Remove(partial)
	}
	return os.Rename(partial, z.Path)
}
