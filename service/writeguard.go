package service

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/utils"
)

// WriteGuard enforces the per-post limits of the admin write flow: one size
// ceiling across thumbnail, body images and attachments, and a cap on the
// number of images embedded in the body.
type WriteGuard struct {
	MaxTotalBytes int64
	MaxBodyImages int
	// SizeOf reports the stored size of a public path. Unknown refs report
	// false and fall back to the declared size.
	SizeOf func(ref string) (int64, bool)
}

// WriteSet is the final state of a post about to be written.
type WriteSet struct {
	Thumbnail   string
	Content     string
	Attachments []models.Attachment
}

// DiskSizer returns a SizeOf func that stats files under publicDir.
func DiskSizer(publicDir string) func(string) (int64, bool) {
	return func(ref string) (int64, bool) {
		p, err := utils.ResolveUploadPath(publicDir, ref)
		if err != nil {
			return 0, false
		}
		fi, err := os.Stat(p)
		if err != nil || fi.IsDir() {
			return 0, false
		}
		return fi.Size(), true
	}
}

// Check returns ErrTooManyImages or ErrTooLarge, wrapped with a message an
// editor can act on.
func (g WriteGuard) Check(ws WriteSet) error {
	srcs := BodyImageSources(ws.Content)
	if g.MaxBodyImages > 0 && len(srcs) > g.MaxBodyImages {
		return fmt.Errorf("%w: the body may embed at most %d images, found %d", ErrTooManyImages, g.MaxBodyImages, len(srcs))
	}
	if g.MaxTotalBytes <= 0 {
		return nil
	}

	thumb := g.refSize(ws.Thumbnail, 0)
	var body int64
	for _, src := range srcs {
		body += g.refSize(src, 0)
	}
	var files int64
	for _, a := range ws.Attachments {
		if a.Path == "" {
			files += a.Size
			continue
		}
		files += g.refSize(a.Path, a.Size)
	}

	if total := thumb + body + files; total > g.MaxTotalBytes {
		return fmt.Errorf("%w: total %s exceeds %s (thumbnail %s, body images %s, attachments %s)",
			ErrTooLarge, formatMB(total), formatMB(g.MaxTotalBytes), formatMB(thumb), formatMB(body), formatMB(files))
	}
	return nil
}

func (g WriteGuard) refSize(ref string, declared int64) int64 {
	if ref == "" {
		return 0
	}
	if strings.HasPrefix(ref, "data:") {
		return dataURLSize(ref)
	}
	if g.SizeOf != nil {
		if n, ok := g.SizeOf(ref); ok {
			return n
		}
	}
	return declared
}

// dataURLSize estimates the decoded size of a base64 data URL.
func dataURLSize(s string) int64 {
	comma := strings.IndexByte(s, ',')
	if comma < 0 {
		return 0
	}
	payload := s[comma+1:]
	n := int64(len(payload)) * 3 / 4
	n -= int64(len(payload) - len(strings.TrimRight(payload, "=")))
	if n < 0 {
		return 0
	}
	return n
}

// BodyImageSources returns the src of every <img> in content, in order.
func BodyImageSources(content string) []string {
	var srcs []string
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return srcs
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "img" {
				continue
			}
			src := ""
			for _, attr := range tok.Attr {
				if attr.Key == "src" {
					src = attr.Val
					break
				}
			}
			srcs = append(srcs, src)
		}
	}
}

func formatMB(n int64) string {
	return fmt.Sprintf("%.2fMB", float64(n)/(1024*1024))
}
