package models

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Attachment is a file attached to a post. Rows imported from the JSON era may
// carry the file inline as a data URL in LegacyData instead of a Path.
type Attachment struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PostID     int64  `gorm:"index;not null" json:"postId"`
	Name       string `gorm:"size:255;not null" json:"name"`
	Path       string `gorm:"size:1024;not null;default:''" json:"path"`
	Size       int64  `gorm:"not null;default:0" json:"size"`
	IsLegacy   bool   `gorm:"not null;default:false" json:"-"`
	LegacyData string `gorm:"type:longtext" json:"-"`
}

// SourceKind distinguishes where an attachment's bytes live.
type SourceKind int

const (
	SourceReferenced SourceKind = iota
	SourceInline
)

// AttachmentSource is the resolved location of an attachment's bytes: either
// a public path (Referenced) or decoded inline data (Inline).
type AttachmentSource struct {
	Kind     SourceKind
	Path     string
	Data     []byte
	MimeType string
}

// ErrNoSource is returned when an attachment has neither a path nor a payload.
var ErrNoSource = errors.New("attachment has no stored content")

// Source resolves the attachment into its tagged variant.
func (a Attachment) Source() (AttachmentSource, error) {
	if a.Path != "" {
		return AttachmentSource{Kind: SourceReferenced, Path: a.Path}, nil
	}
	if a.IsLegacy && a.LegacyData != "" {
		data, mime, err := DecodeDataURL(a.LegacyData)
		if err != nil {
			return AttachmentSource{}, err
		}
		return AttachmentSource{Kind: SourceInline, Data: data, MimeType: mime}, nil
	}
	return AttachmentSource{}, ErrNoSource
}

// AttachmentDownloadPath is the route that serves an attachment by id.
func AttachmentDownloadPath(id uint) string {
	return fmt.Sprintf("/api/attachments/%d", id)
}

// DecodeDataURL decodes a "data:<mime>;base64,<payload>" string. A bare base64
// payload is accepted and reported as application/octet-stream.
func DecodeDataURL(s string) ([]byte, string, error) {
	mime := "application/octet-stream"
	payload := s
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return nil, "", errors.New("malformed data url")
		}
		meta := s[len("data:"):comma]
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", errors.New("data url is not base64 encoded")
		}
		if m := strings.TrimSuffix(meta, ";base64"); m != "" {
			mime = m
		}
		payload = s[comma+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", err
	}
	return data, mime, nil
}
