package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ewhacare/accessdesk/models"
)

// ImportRecord is one post with its attachments as read from a legacy export.
type ImportRecord struct {
	Post        models.Post
	Attachments []models.Attachment
}

// ImportOptions controls ImportPosts.
type ImportOptions struct {
	// Replace wipes existing posts and attachments before importing.
	Replace bool
}

// ImportResult summarizes an import run.
type ImportResult struct {
	Posts       int
	Attachments int
}

// ImportPosts upserts records by id, replacing each post's attachments, and
// optionally overwrites the featured slots. Everything runs in one
// transaction.
func (s *gormStore) ImportPosts(ctx context.Context, records []ImportRecord, slots *models.FeaturedSlots, opts ImportOptions) (ImportResult, error) {
	var res ImportResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Replace {
			if err := tx.Where("1 = 1").Delete(&models.Attachment{}).Error; err != nil {
				return fmt.Errorf("wipe attachments: %w", err)
			}
			if err := tx.Where("1 = 1").Delete(&models.Post{}).Error; err != nil {
				return fmt.Errorf("wipe posts: %w", err)
			}
		}
		txStore := &gormStore{db: tx, ids: s.ids}
		for i := range records {
			rec := records[i]
			if rec.Post.ID == 0 {
				rec.Post.ID = s.ids.Next()
			} else {
				s.ids.Observe(rec.Post.ID)
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec.Post).Error; err != nil {
				return fmt.Errorf("upsert post %d: %w", rec.Post.ID, err)
			}
			if err := txStore.ReplaceAttachments(ctx, rec.Post.ID, rec.Attachments); err != nil {
				return err
			}
			res.Posts++
			res.Attachments += len(rec.Attachments)
		}
		if slots == nil && opts.Replace {
			slots = &models.FeaturedSlots{}
		}
		if slots != nil {
			if err := txStore.EnsureFeaturedRow(ctx); err != nil {
				return err
			}
			if err := txStore.SetFeaturedSlots(ctx, *slots); err != nil {
				return fmt.Errorf("import featured slots: %w", err)
			}
		}
		return nil
	})
	return res, err
}
