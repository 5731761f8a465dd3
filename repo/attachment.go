package repo

import (
	"context"
	"fmt"

	"github.com/ewhacare/accessdesk/models"
)

func (s *gormStore) ListAttachments(ctx context.Context, postID int64) ([]models.Attachment, error) {
	var atts []models.Attachment
	if err := s.db.WithContext(ctx).Where("post_id = ?", postID).Order("id ASC").Find(&atts).Error; err != nil {
		return nil, fmt.Errorf("list attachments of %d: %w", postID, err)
	}
	return atts, nil
}

// ListAttachmentsFor loads the attachments of several posts in one query,
// grouped by post id.
func (s *gormStore) ListAttachmentsFor(ctx context.Context, postIDs []int64) (map[int64][]models.Attachment, error) {
	out := make(map[int64][]models.Attachment, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var atts []models.Attachment
	if err := s.db.WithContext(ctx).Where("post_id IN ?", postIDs).Order("id ASC").Find(&atts).Error; err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	for _, a := range atts {
		out[a.PostID] = append(out[a.PostID], a)
	}
	return out, nil
}

func (s *gormStore) GetAttachment(ctx context.Context, id uint) (*models.Attachment, error) {
	var att models.Attachment
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&att).Error; err != nil {
		return nil, translate(err)
	}
	return &att, nil
}

func (s *gormStore) AddAttachment(ctx context.Context, att *models.Attachment) (uint, error) {
	if err := s.db.WithContext(ctx).Create(att).Error; err != nil {
		return 0, fmt.Errorf("add attachment: %w", err)
	}
	return att.ID, nil
}

func (s *gormStore) DeleteAttachments(ctx context.Context, postID int64) error {
	return s.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Attachment{}).Error
}

// ReplaceAttachments deletes every attachment of postID and inserts atts.
// Callers wanting atomicity run it inside Transaction.
func (s *gormStore) ReplaceAttachments(ctx context.Context, postID int64, atts []models.Attachment) error {
	if err := s.DeleteAttachments(ctx, postID); err != nil {
		return fmt.Errorf("clear attachments of %d: %w", postID, err)
	}
	if len(atts) == 0 {
		return nil
	}
	rows := make([]models.Attachment, len(atts))
	for i, a := range atts {
		a.ID = 0
		a.PostID = postID
		rows[i] = a
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert attachments of %d: %w", postID, err)
	}
	return nil
}
