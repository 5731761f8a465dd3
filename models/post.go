package models

import "time"

// Category values as stored in the posts table.
const (
	CategoryNotice = "공지"
	CategoryEvent  = "행사"
	CategoryNews   = "뉴스"
)

// Categories lists valid categories in display order.
var Categories = []string{CategoryNotice, CategoryEvent, CategoryNews}

var categoryAliases = map[string]string{
	"notice": CategoryNotice,
	"event":  CategoryEvent,
	"news":   CategoryNews,
}

// NormalizeCategory maps English aliases onto stored values and reports whether
// the result is a known category.
func NormalizeCategory(c string) (string, bool) {
	if v, ok := categoryAliases[c]; ok {
		return v, true
	}
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return c, false
}

// Post is a news item managed from the admin panel. IDs are unix milliseconds
// assigned at creation, never auto-incremented. Attachments live in their own
// table and are loaded separately.
type Post struct {
	ID             int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Content        string    `gorm:"type:longtext;not null" json:"content"`
	ThumbnailImage string    `gorm:"size:1024" json:"thumbnailImage"`
	Category       string    `gorm:"size:16;not null;index" json:"category"`
	Status         bool      `gorm:"not null;default:true;index" json:"status"`
	ViewCount      int64     `gorm:"not null;default:0" json:"viewCount"`
	PublishedAt    time.Time `gorm:"not null;index" json:"publishedAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
