package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/repo"
)

// FeaturedService manages the three highlighted post slots.
type FeaturedService struct {
	store repo.Store
}

func NewFeaturedService(store repo.Store) *FeaturedService {
	return &FeaturedService{store: store}
}

// Get returns the current slot assignment.
func (s *FeaturedService) Get(ctx context.Context) (models.FeaturedSlots, error) {
	return s.store.GetFeaturedSlots(ctx)
}

// Set validates and stores all three slots. Non-empty slots must be distinct
// and name existing posts.
func (s *FeaturedService) Set(ctx context.Context, slots models.FeaturedSlots) (models.FeaturedSlots, error) {
	if slots.HasDuplicates() {
		return models.FeaturedSlots{}, ErrDuplicateSlot
	}
	ids := slots.IDs()
	if len(ids) > 0 {
		found, err := s.store.ExistingPostIDs(ctx, ids)
		if err != nil {
			return models.FeaturedSlots{}, err
		}
		known := make(map[int64]bool, len(found))
		for _, id := range found {
			known[id] = true
		}
		for _, id := range ids {
			if !known[id] {
				return models.FeaturedSlots{}, fmt.Errorf("%w: %d", ErrUnknownSlotPost, id)
			}
		}
	}

	if err := s.store.EnsureFeaturedRow(ctx); err != nil {
		return models.FeaturedSlots{}, err
	}
	if err := s.store.SetFeaturedSlots(ctx, slots); err != nil {
		return models.FeaturedSlots{}, err
	}
	slots.ID = models.FeaturedSlotsID
	return slots, nil
}

// Posts resolves the slots, in order, to visible posts. Empty, deleted and
// hidden slots are skipped.
func (s *FeaturedService) Posts(ctx context.Context) ([]models.PostView, error) {
	slots, err := s.store.GetFeaturedSlots(ctx)
	if err != nil {
		return nil, err
	}
	ids := slots.IDs()
	atts, err := s.store.ListAttachmentsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.PostView, 0, len(ids))
	for _, id := range ids {
		post, err := s.store.GetPost(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !post.Status {
			continue
		}
		out = append(out, models.ToView(*post, atts[id]))
	}
	return out, nil
}
