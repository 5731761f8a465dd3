package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/repo"
)

func TestFeaturedSetRejectsDuplicates(t *testing.T) {
	store := new(MockStore)
	svc := NewFeaturedService(store)

	_, err := svc.Set(ctx, models.FeaturedSlots{Slot1ID: idp(1), Slot2ID: nil, Slot3ID: idp(1)})
	assert.ErrorIs(t, err, ErrDuplicateSlot)
	store.AssertNotCalled(t, "SetFeaturedSlots", mock.Anything, mock.Anything)
}

func TestFeaturedSetRejectsUnknownPosts(t *testing.T) {
	store := new(MockStore)
	svc := NewFeaturedService(store)

	store.On("ExistingPostIDs", ctx, []int64{1, 2}).Return([]int64{1}, nil)

	_, err := svc.Set(ctx, models.FeaturedSlots{Slot1ID: idp(1), Slot2ID: idp(2)})
	assert.ErrorIs(t, err, ErrUnknownSlotPost)
	store.AssertNotCalled(t, "SetFeaturedSlots", mock.Anything, mock.Anything)
}

func TestFeaturedSetStoresAllSlots(t *testing.T) {
	store := new(MockStore)
	svc := NewFeaturedService(store)
	slots := models.FeaturedSlots{Slot1ID: idp(3), Slot3ID: idp(1)}

	store.On("ExistingPostIDs", ctx, []int64{3, 1}).Return([]int64{1, 3}, nil)
	store.On("EnsureFeaturedRow", ctx).Return(nil)
	store.On("SetFeaturedSlots", ctx, slots).Return(nil).Once()

	got, err := svc.Set(ctx, slots)
	require.NoError(t, err)
	assert.Nil(t, got.Slot2ID)
	assert.Equal(t, int64(3), *got.Slot1ID)
	store.AssertExpectations(t)
}

func TestFeaturedSetAllEmptySkipsLookup(t *testing.T) {
	store := new(MockStore)
	svc := NewFeaturedService(store)

	store.On("EnsureFeaturedRow", ctx).Return(nil)
	store.On("SetFeaturedSlots", ctx, models.FeaturedSlots{}).Return(nil)

	_, err := svc.Set(ctx, models.FeaturedSlots{})
	require.NoError(t, err)
	store.AssertNotCalled(t, "ExistingPostIDs", mock.Anything, mock.Anything)
}

func TestFeaturedPostsSkipsMissingAndHidden(t *testing.T) {
	store := new(MockStore)
	svc := NewFeaturedService(store)

	store.On("GetFeaturedSlots", ctx).Return(models.FeaturedSlots{Slot1ID: idp(3), Slot2ID: idp(2), Slot3ID: idp(1)}, nil)
	store.On("ListAttachmentsFor", ctx, []int64{3, 2, 1}).Return(map[int64][]models.Attachment{}, nil)
	store.On("GetPost", ctx, int64(3)).Return(&models.Post{ID: 3, Title: "three", Status: true}, nil)
	store.On("GetPost", ctx, int64(2)).Return(nil, repo.ErrNotFound)
	store.On("GetPost", ctx, int64(1)).Return(&models.Post{ID: 1, Title: "one", Status: false}, nil)

	posts, err := svc.Posts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "three", posts[0].Title)
}

func TestFeaturedSlotsHasDuplicates(t *testing.T) {
	assert.False(t, models.FeaturedSlots{}.HasDuplicates())
	assert.False(t, models.FeaturedSlots{Slot1ID: idp(1), Slot2ID: idp(2), Slot3ID: idp(3)}.HasDuplicates())
	assert.True(t, models.FeaturedSlots{Slot2ID: idp(5), Slot3ID: idp(5)}.HasDuplicates())
}
