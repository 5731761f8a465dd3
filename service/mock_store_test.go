package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/repo"
)

type MockStore struct {
	mock.Mock
}

var _ repo.Store = (*MockStore)(nil)

// Transaction runs fn against the mock itself so expectations set on the
// outer store cover statements issued inside the transaction.
func (m *MockStore) Transaction(ctx context.Context, fn func(tx repo.Store) error) error {
	return fn(m)
}

func (m *MockStore) ListPosts(ctx context.Context, f repo.PostFilter) ([]models.Post, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockStore) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockStore) PostExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) ExistingPostIDs(ctx context.Context, ids []int64) ([]int64, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockStore) CreatePost(ctx context.Context, post *models.Post) (int64, error) {
	args := m.Called(ctx, post)
	id := args.Get(0).(int64)
	if args.Error(1) == nil {
		post.ID = id
	}
	return id, args.Error(1)
}

func (m *MockStore) UpdatePost(ctx context.Context, id int64, patch repo.PostPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockStore) DeletePost(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) IncrementViewCount(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) CountPosts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) ListAttachments(ctx context.Context, postID int64) ([]models.Attachment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Attachment), args.Error(1)
}

func (m *MockStore) ListAttachmentsFor(ctx context.Context, postIDs []int64) (map[int64][]models.Attachment, error) {
	args := m.Called(ctx, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]models.Attachment), args.Error(1)
}

func (m *MockStore) GetAttachment(ctx context.Context, id uint) (*models.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attachment), args.Error(1)
}

func (m *MockStore) AddAttachment(ctx context.Context, att *models.Attachment) (uint, error) {
	args := m.Called(ctx, att)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockStore) DeleteAttachments(ctx context.Context, postID int64) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *MockStore) ReplaceAttachments(ctx context.Context, postID int64, atts []models.Attachment) error {
	return m.Called(ctx, postID, atts).Error(0)
}

func (m *MockStore) GetFeaturedSlots(ctx context.Context) (models.FeaturedSlots, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.FeaturedSlots), args.Error(1)
}

func (m *MockStore) SetFeaturedSlots(ctx context.Context, slots models.FeaturedSlots) error {
	return m.Called(ctx, slots).Error(0)
}

func (m *MockStore) EnsureFeaturedRow(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStore) ImportPosts(ctx context.Context, records []repo.ImportRecord, slots *models.FeaturedSlots, opts repo.ImportOptions) (repo.ImportResult, error) {
	args := m.Called(ctx, records, slots, opts)
	return args.Get(0).(repo.ImportResult), args.Error(1)
}
