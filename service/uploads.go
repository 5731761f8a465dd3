package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ewhacare/accessdesk/utils"
)

// UploadedFile describes a stored upload as returned to the editor.
type UploadedFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// UploadStore writes uploads into the public attachments directory under
// generated names.
type UploadStore struct {
	PublicDir string
	Image     utils.ImageOptions
	now       func() time.Time
}

// NewUploadStore returns a store rooted at publicDir.
func NewUploadStore(publicDir string, image utils.ImageOptions) *UploadStore {
	return &UploadStore{PublicDir: publicDir, Image: image, now: time.Now}
}

func (s *UploadStore) dir() string {
	return filepath.Join(s.PublicDir, "uploads", "attachments")
}

// Save stores r under a name derived from original. At most limit bytes are
// accepted; a larger file is discarded with ErrTooLarge. With compress set,
// decodable images are resized and re-encoded as JPEG first, and limit
// applies to the compressed result.
func (s *UploadStore) Save(original string, r io.Reader, limit int64, compress bool) (UploadedFile, error) {
	if err := os.MkdirAll(s.dir(), 0o755); err != nil {
		return UploadedFile{}, fmt.Errorf("create upload dir: %w", err)
	}

	display := displayName(original)
	name := utils.UploadFileName(original, s.now())

	if compress && utils.IsCompressibleImage(original) {
		// Originals may exceed the ceiling before compression.
		out, err := utils.CompressImage(r, s.Image)
		if errors.Is(err, utils.ErrImageTooLarge) {
			return UploadedFile{}, fmt.Errorf("%w: %s has too many pixels to compress", ErrInvalidInput, display)
		}
		if err != nil {
			return UploadedFile{}, fmt.Errorf("%w: %s is not a readable image", ErrInvalidInput, display)
		}
		if int64(len(out)) > limit {
			return UploadedFile{}, fmt.Errorf("%w: %s is %s after compression, %s left", ErrTooLarge, display, formatMB(int64(len(out))), formatMB(limit))
		}
		name = utils.JPEGName(name)
		display = utils.JPEGName(display)
		r = bytes.NewReader(out)
	}

	target := filepath.Join(s.dir(), name)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("create %s: %w", name, err)
	}
	n, err := io.Copy(f, &io.LimitedReader{R: r, N: limit + 1})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > limit {
		err = fmt.Errorf("%w: %s exceeds the remaining %s", ErrTooLarge, display, formatMB(limit))
	}
	if err != nil {
		_ = os.Remove(target)
		return UploadedFile{}, err
	}
	return UploadedFile{Name: display, Path: utils.UploadURL(name), Size: n}, nil
}

// Remove deletes the upload at webPath. Paths outside the attachments
// directory yield ErrInvalidInput; missing files yield ErrNotFound.
func (s *UploadStore) Remove(webPath string) error {
	p, err := utils.ResolveUploadPath(s.PublicDir, webPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// SizeOf reports the size of a stored upload.
func (s *UploadStore) SizeOf(webPath string) (int64, bool) {
	return DiskSizer(s.PublicDir)(webPath)
}

func displayName(original string) string {
	base := original
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = utils.SanitizeText(strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, base))
	if base == "" {
		return "file"
	}
	return base
}
