package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ewhacare/accessdesk/models"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("record not found")

// PostFilter narrows ListPosts. Zero values mean "no constraint"; Limit <= 0
// disables pagination.
type PostFilter struct {
	VisibleOnly bool
	Status      *bool
	Category    string
	Search      string
	Offset      int
	Limit       int
}

// PostPatch carries the fields of a partial post update. Nil fields are left
// untouched.
type PostPatch struct {
	Title          *string
	Content        *string
	ThumbnailImage *string
	Category       *string
	Status         *bool
	PublishedAt    *time.Time
}

// Empty reports whether the patch changes nothing.
func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.ThumbnailImage == nil &&
		p.Category == nil && p.Status == nil && p.PublishedAt == nil
}

// Store is the persistence boundary for posts, attachments and featured slots.
type Store interface {
	// Transaction runs fn against a Store bound to a single database
	// transaction. Returning an error rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	ListPosts(ctx context.Context, f PostFilter) ([]models.Post, int64, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	PostExists(ctx context.Context, id int64) (bool, error)
	ExistingPostIDs(ctx context.Context, ids []int64) ([]int64, error)
	CreatePost(ctx context.Context, post *models.Post) (int64, error)
	UpdatePost(ctx context.Context, id int64, patch PostPatch) error
	DeletePost(ctx context.Context, id int64) error
	IncrementViewCount(ctx context.Context, id int64) error
	CountPosts(ctx context.Context) (int64, error)

	ListAttachments(ctx context.Context, postID int64) ([]models.Attachment, error)
	ListAttachmentsFor(ctx context.Context, postIDs []int64) (map[int64][]models.Attachment, error)
	GetAttachment(ctx context.Context, id uint) (*models.Attachment, error)
	AddAttachment(ctx context.Context, att *models.Attachment) (uint, error)
	DeleteAttachments(ctx context.Context, postID int64) error
	ReplaceAttachments(ctx context.Context, postID int64, atts []models.Attachment) error

	GetFeaturedSlots(ctx context.Context) (models.FeaturedSlots, error)
	SetFeaturedSlots(ctx context.Context, slots models.FeaturedSlots) error
	EnsureFeaturedRow(ctx context.Context) error

	ImportPosts(ctx context.Context, records []ImportRecord, slots *models.FeaturedSlots, opts ImportOptions) (ImportResult, error)
}

type gormStore struct {
	db  *gorm.DB
	ids *IDGenerator
}

// NewStore returns a gorm-backed Store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db, ids: NewIDGenerator(nil)}
}

// NewStoreWithIDs is NewStore with an explicit id generator.
func NewStoreWithIDs(db *gorm.DB, ids *IDGenerator) Store {
	return &gormStore{db: db, ids: ids}
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx, ids: s.ids})
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
