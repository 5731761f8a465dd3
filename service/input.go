package service

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/repo"
	"github.com/ewhacare/accessdesk/utils"
)

// AttachmentInput is one attachment as sent by the admin editor.
type AttachmentInput struct {
	ID   uint   `json:"id,omitempty"`
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// OptionalAttachments records whether the "attachments" key was present in
// the payload. A present null or empty list clears the attachments; an absent
// key leaves them untouched.
type OptionalAttachments struct {
	Set   bool
	Items []AttachmentInput
}

func (o *OptionalAttachments) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Items = nil
		return nil
	}
	return json.Unmarshal(b, &o.Items)
}

// MarshalJSON keeps the type symmetric for clients and tests.
func (o OptionalAttachments) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	if o.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o.Items)
}

// PostInput is the create-or-update payload. Nil fields are not supplied.
type PostInput struct {
	ID             *int64              `json:"id"`
	Title          *string             `json:"title"`
	Content        *string             `json:"content"`
	ThumbnailImage *string             `json:"thumbnailImage"`
	Category       *string             `json:"category"`
	Status         *bool               `json:"status"`
	PublishedAt    *string             `json:"publishedAt"`
	Attachments    OptionalAttachments `json:"attachments"`
}

var publishedAtLayouts = []string{
	time.RFC3339,
	models.TimeLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParsePublishedAt accepts RFC3339, the wire layout, and plain dates.
// Zone-less values are read in local time.
func ParsePublishedAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range publishedAtLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalidf("publishedAt %q is not a recognised date", s)
}

func validThumbnail(ref string) bool {
	switch {
	case ref == "":
		return true
	case strings.HasPrefix(ref, "/uploads/"):
		return !strings.Contains(ref, "..")
	case strings.HasPrefix(ref, "data:image/"):
		return true
	case strings.HasPrefix(ref, "https://"), strings.HasPrefix(ref, "http://"):
		return true
	}
	return false
}

// patch validates the supplied fields and converts them to a repo patch.
func (in PostInput) patch() (repo.PostPatch, error) {
	var p repo.PostPatch
	if in.Title != nil {
		title := utils.SanitizeText(*in.Title)
		if title == "" {
			return p, invalidf("title must not be empty")
		}
		p.Title = &title
	}
	if in.Content != nil {
		content := utils.SanitizeContent(*in.Content)
		if strings.TrimSpace(content) == "" {
			return p, invalidf("content must not be empty")
		}
		p.Content = &content
	}
	if in.ThumbnailImage != nil {
		thumb := strings.TrimSpace(*in.ThumbnailImage)
		if !validThumbnail(thumb) {
			return p, invalidf("thumbnailImage must be an uploaded file")
		}
		p.ThumbnailImage = &thumb
	}
	if in.Category != nil {
		cat, ok := models.NormalizeCategory(strings.TrimSpace(*in.Category))
		if !ok {
			return p, invalidf("unknown category %q", *in.Category)
		}
		p.Category = &cat
	}
	if in.Status != nil {
		st := *in.Status
		p.Status = &st
	}
	if in.PublishedAt != nil && strings.TrimSpace(*in.PublishedAt) != "" {
		t, err := ParsePublishedAt(*in.PublishedAt)
		if err != nil {
			return p, err
		}
		p.PublishedAt = &t
	}
	return p, nil
}

// newPost builds a post for insertion. Title, content and category are
// required; status defaults to visible and publishedAt to now.
func (in PostInput) newPost(now time.Time) (models.Post, error) {
	p, err := in.patch()
	if err != nil {
		return models.Post{}, err
	}
	switch {
	case p.Title == nil:
		return models.Post{}, invalidf("title is required")
	case p.Content == nil:
		return models.Post{}, invalidf("content is required")
	case p.Category == nil:
		return models.Post{}, invalidf("category is required")
	}

	post := models.Post{
		Title:       *p.Title,
		Content:     *p.Content,
		Category:    *p.Category,
		Status:      true,
		PublishedAt: now,
	}
	if p.ThumbnailImage != nil {
		post.ThumbnailImage = *p.ThumbnailImage
	}
	if p.Status != nil {
		post.Status = *p.Status
	}
	if p.PublishedAt != nil {
		post.PublishedAt = *p.PublishedAt
	}
	return post, nil
}

// ParseStatusFilter maps list filter values onto a visibility flag.
func ParseStatusFilter(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "visible", "노출", "true", "1":
		return true, true
	case "hidden", "비활성", "false", "0":
		return false, true
	}
	return false, false
}
