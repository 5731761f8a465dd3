package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachmentSource(t *testing.T) {
	src, err := Attachment{Path: "/uploads/attachments/a.pdf"}.Source()
	require.NoError(t, err)
	assert.Equal(t, SourceReferenced, src.Kind)
	assert.Equal(t, "/uploads/attachments/a.pdf", src.Path)

	src, err = Attachment{IsLegacy: true, LegacyData: "data:text/plain;base64,aGVsbG8="}.Source()
	require.NoError(t, err)
	assert.Equal(t, SourceInline, src.Kind)
	assert.Equal(t, "text/plain", src.MimeType)
	assert.Equal(t, []byte("hello"), src.Data)

	_, err = Attachment{}.Source()
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestDecodeDataURL(t *testing.T) {
	data, mime, err := DecodeDataURL("aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", mime)
	assert.Equal(t, []byte("hello"), data)

	_, _, err = DecodeDataURL("data:text/plain,hello")
	assert.Error(t, err)
	_, _, err = DecodeDataURL("data:text/plain;base64")
	assert.Error(t, err)
	_, _, err = DecodeDataURL("data:text/plain;base64,@@@")
	assert.Error(t, err)
}

func TestNormalizeCategory(t *testing.T) {
	c, ok := NormalizeCategory("news")
	assert.True(t, ok)
	assert.Equal(t, CategoryNews, c)
	_, ok = NormalizeCategory(CategoryEvent)
	assert.True(t, ok)
	_, ok = NormalizeCategory("blog")
	assert.False(t, ok)
}

func TestToViewExposesLegacyAttachmentsByRoute(t *testing.T) {
	published := time.Date(2024, 1, 3, 10, 30, 0, 0, time.Local)
	v := ToView(Post{ID: 1704240000000, Title: "t", PublishedAt: published}, []Attachment{
		{ID: 7, Name: "old.pdf", IsLegacy: true, LegacyData: "aGk="},
		{ID: 8, Name: "new.pdf", Path: "/uploads/attachments/new.pdf", Size: 3},
	})
	assert.Equal(t, "2024-01-03T10:30:00", v.PublishedAt)
	assert.Equal(t, "", v.CreatedAt)
	require.Len(t, v.Attachments, 2)
	assert.Equal(t, "/api/attachments/7", v.Attachments[0].Path)
	require.NotNil(t, v.Attachment)
	assert.Equal(t, "old.pdf", v.Attachment.Name)

	empty := ToView(Post{}, nil)
	assert.NotNil(t, empty.Attachments)
	assert.Nil(t, empty.Attachment)
}

func TestFeaturedSlots(t *testing.T) {
	a, b := int64(1), int64(2)
	assert.Equal(t, []int64{1, 2}, FeaturedSlots{Slot1ID: &a, Slot3ID: &b}.IDs())
	assert.False(t, FeaturedSlots{Slot1ID: &a, Slot3ID: &b}.HasDuplicates())
	assert.True(t, FeaturedSlots{Slot2ID: &a, Slot3ID: &a}.HasDuplicates())
}
