package utils

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadURLPrefix is the public URL prefix of stored attachments.
const UploadURLPrefix = "/uploads/attachments/"

const maxBaseRunes = 50

var (
	disallowedNameChars = regexp.MustCompile(`[^a-zA-Z0-9가-힣_-]`)
	allowedExt          = regexp.MustCompile(`^\.[A-Za-z0-9]{1,10}$`)

	// ErrOutsideUploads is returned for paths that do not name a file
	// directly inside the attachments directory.
	ErrOutsideUploads = errors.New("path is outside the upload directory")
)

// UploadFileName derives the stored name for an uploaded file:
// <unixMillis>_<6 random chars>_<sanitized base><ext>. Only the last element
// of original is used, with both slash kinds treated as separators.
func UploadFileName(original string, now time.Time) string {
	base := original
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}

	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if !allowedExt.MatchString(ext) {
		ext = ""
		stem = base
	}

	stem = disallowedNameChars.ReplaceAllString(stem, "_")
	if r := []rune(stem); len(r) > maxBaseRunes {
		stem = string(r[:maxBaseRunes])
	}
	if stem == "" {
		stem = "file"
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%d_%s_%s%s", now.UnixMilli(), suffix, stem, ext)
}

// UploadURL is the public path of a stored file name.
func UploadURL(name string) string {
	return UploadURLPrefix + name
}

// ResolveUploadPath maps a public upload URL onto the filesystem under
// publicDir. Anything that is not a plain file name directly below
// UploadURLPrefix is rejected.
func ResolveUploadPath(publicDir, webPath string) (string, error) {
	if !strings.HasPrefix(webPath, UploadURLPrefix) {
		return "", ErrOutsideUploads
	}
	name := strings.TrimPrefix(webPath, UploadURLPrefix)
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, "/\\\x00") ||
		path.Clean(webPath) != webPath {
		return "", ErrOutsideUploads
	}
	return filepath.Join(publicDir, "uploads", "attachments", name), nil
}
