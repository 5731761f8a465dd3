package service

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/repo"
)

// fakeExtractor keeps extracted payloads in memory.
type fakeExtractor struct {
	data    [][]byte
	paths   []string
	removed []string
}

func (f *fakeExtractor) Extract(name string, data []byte) (UploadedFile, error) {
	f.data = append(f.data, data)
	path := "/uploads/attachments/x_" + name
	f.paths = append(f.paths, path)
	return UploadedFile{Name: name, Path: path, Size: int64(len(data))}, nil
}

func (f *fakeExtractor) Remove(webPath string) error {
	f.removed = append(f.removed, webPath)
	return nil
}

const legacyPostsJSON = `[
  {
    "id": 1704067200000,
    "title": "이화 의료접근성 지원 서비스 안내",
    "content": "<p>안내</p><script>alert(1)</script>",
    "category": "공지",
    "status": true,
    "viewCount": 15,
    "publishedAt": "2024-01-01T00:00:00.000Z",
    "createdAt": "2024-01-01T00:00:00.000Z",
    "updatedAt": "2024-01-02T00:00:00.000Z",
    "attachment": {"name": "a.pdf", "data": "data:application/pdf;base64,JVBERg=="},
    "attachments": [
      {"name": "a.pdf", "data": "data:application/pdf;base64,JVBERg=="},
      {"name": "b.pdf", "path": "/uploads/attachments/b.pdf", "size": 12}
    ]
  },
  {"id": 2, "title": "bad", "content": "<p>x</p>", "category": "blog", "status": true}
]`

func TestDecodeLegacyPostsDedupesAttachments(t *testing.T) {
	posts, err := DecodeLegacyPosts(strings.NewReader(legacyPostsJSON))
	require.NoError(t, err)
	require.Len(t, posts, 2)

	rec, err := posts[0].Record(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1704067200000), rec.Post.ID)
	assert.NotContains(t, rec.Post.Content, "script")
	assert.Equal(t, int64(15), rec.Post.ViewCount)
	require.Len(t, rec.Attachments, 2)
	assert.True(t, rec.Attachments[0].IsLegacy)
	assert.Equal(t, "data:application/pdf;base64,JVBERg==", rec.Attachments[0].LegacyData)
	assert.False(t, rec.Attachments[1].IsLegacy)
	assert.Equal(t, "/uploads/attachments/b.pdf", rec.Attachments[1].Path)

	_, err = posts[1].Record(nil)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestLegacyRecordExtractsInlinePayloads(t *testing.T) {
	posts, err := DecodeLegacyPosts(strings.NewReader(legacyPostsJSON))
	require.NoError(t, err)

	ex := &fakeExtractor{}
	rec, err := posts[0].Record(ex)
	require.NoError(t, err)
	want, _ := base64.StdEncoding.DecodeString("JVBERg==")
	require.Len(t, ex.data, 1)
	assert.Equal(t, want, ex.data[0])
	assert.False(t, rec.Attachments[0].IsLegacy)
	assert.Equal(t, "/uploads/attachments/x_a.pdf", rec.Attachments[0].Path)
	assert.Equal(t, int64(len(want)), rec.Attachments[0].Size)
}

func TestDecodeLegacyFeaturedFalsyIsNull(t *testing.T) {
	slots, err := DecodeLegacyFeatured(strings.NewReader(`{"slot1Id": 1704067200000, "slot2Id": 0, "slot3Id": false}`))
	require.NoError(t, err)
	require.NotNil(t, slots.Slot1ID)
	assert.Equal(t, int64(1704067200000), *slots.Slot1ID)
	assert.Nil(t, slots.Slot2ID)
	assert.Nil(t, slots.Slot3ID)

	slots, err = DecodeLegacyFeatured(strings.NewReader(`{"slot1Id": "1704153600000", "slot2Id": null, "slot3Id": ""}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1704153600000), *slots.Slot1ID)
	assert.Nil(t, slots.Slot3ID)
}

func TestImporterSkipsInvalidAndDropsDanglingSlots(t *testing.T) {
	store := new(MockStore)
	posts, err := DecodeLegacyPosts(strings.NewReader(legacyPostsJSON))
	require.NoError(t, err)

	gone := int64(99)
	kept := int64(1704067200000)
	slots := &models.FeaturedSlots{Slot1ID: &kept, Slot2ID: &gone}

	store.On("ImportPosts", ctx, mock.MatchedBy(func(recs []repo.ImportRecord) bool {
		return len(recs) == 1 && recs[0].Post.ID == kept
	}), mock.MatchedBy(func(s *models.FeaturedSlots) bool {
		return s.Slot1ID != nil && *s.Slot1ID == kept && s.Slot2ID == nil
	}), repo.ImportOptions{Replace: true}).Return(repo.ImportResult{Posts: 1, Attachments: 2}, nil).Once()

	report, err := NewImporter(store, nil).Import(ctx, posts, slots, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Posts)
	assert.Len(t, report.Skipped, 1)
	store.AssertExpectations(t)
}

func TestImporterRejectsDuplicateSlots(t *testing.T) {
	store := new(MockStore)
	id := int64(1704067200000)
	store.On("ExistingPostIDs", ctx, []int64{id, id}).Return([]int64{id}, nil).Once()
	_, err := NewImporter(store, nil).Import(ctx, nil, &models.FeaturedSlots{Slot1ID: &id, Slot2ID: &id}, false)
	assert.ErrorIs(t, err, ErrDuplicateSlot)
	store.AssertNotCalled(t, "ImportPosts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImporterKeepsSlotsForStoredPostsWithoutReplace(t *testing.T) {
	store := new(MockStore)
	posts, err := DecodeLegacyPosts(strings.NewReader(legacyPostsJSON))
	require.NoError(t, err)

	imported := int64(1704067200000)
	stored := int64(1600000000000)
	gone := int64(99)
	slots := &models.FeaturedSlots{Slot1ID: &gone, Slot2ID: &imported, Slot3ID: &stored}

	store.On("ExistingPostIDs", ctx, []int64{gone, stored}).Return([]int64{stored}, nil).Once()
	store.On("ImportPosts", ctx, mock.Anything, mock.MatchedBy(func(s *models.FeaturedSlots) bool {
		return s.Slot1ID == nil &&
			s.Slot2ID != nil && *s.Slot2ID == imported &&
			s.Slot3ID != nil && *s.Slot3ID == stored
	}), repo.ImportOptions{Replace: false}).Return(repo.ImportResult{Posts: 1, Attachments: 2}, nil).Once()

	_, err = NewImporter(store, nil).Import(ctx, posts, slots, false)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestImporterRemovesExtractedFilesWhenImportFails(t *testing.T) {
	store := new(MockStore)
	posts, err := DecodeLegacyPosts(strings.NewReader(legacyPostsJSON))
	require.NoError(t, err)

	store.On("ImportPosts", ctx, mock.Anything, (*models.FeaturedSlots)(nil), repo.ImportOptions{Replace: false}).
		Return(repo.ImportResult{}, errors.New("deadlock")).Once()

	ex := &fakeExtractor{}
	_, err = NewImporter(store, ex).Import(ctx, posts, nil, false)
	require.Error(t, err)
	require.Len(t, ex.paths, 1)
	assert.Equal(t, ex.paths, ex.removed)
}

func TestImporterRemovesFilesOfSkippedPosts(t *testing.T) {
	store := new(MockStore)
	posts, err := DecodeLegacyPosts(strings.NewReader(`[{
		"id": 5, "title": "broken", "content": "", "category": "공지", "status": true,
		"attachments": [
			{"name": "ok.pdf", "data": "data:application/pdf;base64,JVBERg=="},
			{"name": "bad.pdf", "data": "data:application/pdf;base64,!!!"}
		]
	}]`))
	require.NoError(t, err)

	store.On("ImportPosts", ctx, mock.MatchedBy(func(recs []repo.ImportRecord) bool {
		return len(recs) == 0
	}), (*models.FeaturedSlots)(nil), repo.ImportOptions{Replace: false}).Return(repo.ImportResult{}, nil).Once()

	ex := &fakeExtractor{}
	report, err := NewImporter(store, ex).Import(ctx, posts, nil, false)
	require.NoError(t, err)
	assert.Len(t, report.Skipped, 1)
	assert.Equal(t, []string{"/uploads/attachments/x_ok.pdf"}, ex.removed)
	store.AssertExpectations(t)
}
