package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ewhacare/accessdesk/models"
)

// GetFeaturedSlots returns the slot row. A missing row reads as all-empty.
func (s *gormStore) GetFeaturedSlots(ctx context.Context) (models.FeaturedSlots, error) {
	var slots models.FeaturedSlots
	err := s.db.WithContext(ctx).Where("id = ?", models.FeaturedSlotsID).First(&slots).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.FeaturedSlots{ID: models.FeaturedSlotsID}, nil
	}
	return slots, err
}

// SetFeaturedSlots writes all three slots in a single UPDATE, nils included.
func (s *gormStore) SetFeaturedSlots(ctx context.Context, slots models.FeaturedSlots) error {
	return s.db.WithContext(ctx).Model(&models.FeaturedSlots{}).
		Where("id = ?", models.FeaturedSlotsID).
		Updates(map[string]interface{}{
			"slot1_id":   slots.Slot1ID,
			"slot2_id":   slots.Slot2ID,
			"slot3_id":   slots.Slot3ID,
			"updated_at": time.Now(),
		}).Error
}

// EnsureFeaturedRow creates the slot row if it is missing.
func (s *gormStore) EnsureFeaturedRow(ctx context.Context) error {
	row := models.FeaturedSlots{ID: models.FeaturedSlotsID, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func clearFeaturedRefs(tx *gorm.DB, postID int64) error {
	return tx.Model(&models.FeaturedSlots{}).
		Where("slot1_id = ? OR slot2_id = ? OR slot3_id = ?", postID, postID, postID).
		Updates(map[string]interface{}{
			"slot1_id": gorm.Expr("CASE WHEN slot1_id = ? THEN NULL ELSE slot1_id END", postID),
			"slot2_id": gorm.Expr("CASE WHEN slot2_id = ? THEN NULL ELSE slot2_id END", postID),
			"slot3_id": gorm.Expr("CASE WHEN slot3_id = ? THEN NULL ELSE slot3_id END", postID),
		}).Error
}
