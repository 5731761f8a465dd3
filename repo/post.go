package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ewhacare/accessdesk/models"
)

func (s *gormStore) filtered(ctx context.Context, f PostFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Post{})
	if f.VisibleOnly {
		q = q.Where("status = ?", true)
	} else if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+escapeLike(strings.ToLower(term))+"%")
	}
	return q
}

func (s *gormStore) ListPosts(ctx context.Context, f PostFilter) ([]models.Post, int64, error) {
	var total int64
	if err := s.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	q := s.filtered(ctx, f).Order("published_at DESC").Order("id DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}

func (s *gormStore) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (s *gormStore) PostExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *gormStore) ExistingPostIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

func (s *gormStore) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).Count(&n).Error
	return n, err
}

// CreatePost inserts post, assigning a time-derived id when post.ID is zero.
func (s *gormStore) CreatePost(ctx context.Context, post *models.Post) (int64, error) {
	if post.ID == 0 {
		post.ID = s.ids.Next()
	} else {
		s.ids.Observe(post.ID)
	}
	if post.PublishedAt.IsZero() {
		post.PublishedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return 0, fmt.Errorf("create post: %w", err)
	}
	return post.ID, nil
}

// UpdatePost applies the non-nil fields of patch and refreshes updated_at.
func (s *gormStore) UpdatePost(ctx context.Context, id int64, patch PostPatch) error {
	exists, err := s.PostExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.ThumbnailImage != nil {
		updates["thumbnail_image"] = *patch.ThumbnailImage
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.PublishedAt != nil {
		updates["published_at"] = *patch.PublishedAt
	}

	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("update post %d: %w", id, err)
	}
	return nil
}

// DeletePost removes the post, its attachments and any featured slot
// pointing at it in one transaction.
func (s *gormStore) DeletePost(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return fmt.Errorf("delete attachments of %d: %w", id, err)
		}
		return clearFeaturedRefs(tx, id)
	})
}

// IncrementViewCount bumps view_count without touching any other column.
func (s *gormStore) IncrementViewCount(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
