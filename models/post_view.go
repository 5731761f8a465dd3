package models

import "time"

// TimeLayout is the wire format for post timestamps.
const TimeLayout = "2006-01-02T15:04:05"

// AttachmentView is the client shape of an attachment.
type AttachmentView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// PostView is the client shape of a post. Attachment mirrors the first entry of
// Attachments for consumers written against the single-attachment format.
type PostView struct {
	ID             int64            `json:"id"`
	Title          string           `json:"title"`
	Content        string           `json:"content"`
	ThumbnailImage string           `json:"thumbnailImage"`
	Category       string           `json:"category"`
	Status         bool             `json:"status"`
	ViewCount      int64            `json:"viewCount"`
	PublishedAt    string           `json:"publishedAt"`
	CreatedAt      string           `json:"createdAt"`
	UpdatedAt      string           `json:"updatedAt"`
	Attachments    []AttachmentView `json:"attachments"`
	Attachment     *AttachmentView  `json:"attachment"`
}

// ToView converts a post row and its attachments to the client shape. Legacy
// inline attachments are exposed through the attachment download route.
func ToView(p Post, atts []Attachment) PostView {
	v := PostView{
		ID:             p.ID,
		Title:          p.Title,
		Content:        p.Content,
		ThumbnailImage: p.ThumbnailImage,
		Category:       p.Category,
		Status:         p.Status,
		ViewCount:      p.ViewCount,
		PublishedAt:    formatTime(p.PublishedAt),
		CreatedAt:      formatTime(p.CreatedAt),
		UpdatedAt:      formatTime(p.UpdatedAt),
		Attachments:    make([]AttachmentView, 0, len(atts)),
	}
	for _, a := range atts {
		path := a.Path
		if path == "" && a.IsLegacy {
			path = AttachmentDownloadPath(a.ID)
		}
		v.Attachments = append(v.Attachments, AttachmentView{ID: a.ID, Name: a.Name, Path: path, Size: a.Size})
	}
	if len(v.Attachments) > 0 {
		first := v.Attachments[0]
		v.Attachment = &first
	}
	return v
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}
