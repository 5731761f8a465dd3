package models

import "time"

// FeaturedSlotsID is the id of the single featured_slots row.
const FeaturedSlotsID = 1

// FeaturedSlots holds the three curator-picked post ids shown on the blog
// highlight area. A nil slot is empty.
type FeaturedSlots struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Slot1ID   *int64    `gorm:"column:slot1_id" json:"slot1Id"`
	Slot2ID   *int64    `gorm:"column:slot2_id" json:"slot2Id"`
	Slot3ID   *int64    `gorm:"column:slot3_id" json:"slot3Id"`
	UpdatedAt time.Time `json:"-"`
}

// IDs returns the non-nil slot values in slot order.
func (f FeaturedSlots) IDs() []int64 {
	ids := make([]int64, 0, 3)
	for _, p := range []*int64{f.Slot1ID, f.Slot2ID, f.Slot3ID} {
		if p != nil {
			ids = append(ids, *p)
		}
	}
	return ids
}

// HasDuplicates reports whether two non-nil slots point at the same post.
func (f FeaturedSlots) HasDuplicates() bool {
	seen := make(map[int64]struct{}, 3)
	for _, id := range f.IDs() {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
