package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ewhacare/accessdesk/middleware"
	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/service"
)

func TestAdminIndexRedirects(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	w = f.do(f.withCookie(t, httptest.NewRequest(http.MethodGet, "/admin", nil)))
	assert.Equal(t, "/admin/posts", w.Header().Get("Location"))
}

func TestAdminPagesRequireSession(t *testing.T) {
	f := newFixture(t)
	w := f.do(httptest.NewRequest(http.MethodGet, "/admin/posts", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/admin/login?next=")
}

func TestAdminLoginForm(t *testing.T) {
	f := newFixture(t)

	w := f.do(formRequest("/admin/login", url.Values{"username": {"admin"}, "password": {"nope"}}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "아이디 또는 비밀번호가 올바르지 않습니다.")

	w = f.do(formRequest("/admin/login", url.Values{"username": {"admin"}, "password": {testPassword}, "next": {"/admin/featured"}}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/featured", w.Header().Get("Location"))
	var session string
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AdminCookieName {
			session = c.Value
			assert.True(t, c.HttpOnly)
		}
	}
	assert.NotEmpty(t, session)
}

func TestAdminPostsListsWithFilters(t *testing.T) {
	f := newFixture(t)
	f.posts.On("List", mock.Anything, service.ListQuery{Admin: true, Status: "hidden", Page: 1, PageSize: service.DefaultPageSize}).
		Return(service.ListResult{Posts: []models.PostView{{ID: 3, Title: "숨긴 글", Status: false}}, Total: 1, Page: 1, PageSize: 10}, nil).Once()

	w := f.do(f.withCookie(t, httptest.NewRequest(http.MethodGet, "/admin/posts?status=hidden&flash=saved", nil)))
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "숨긴 글")
	assert.Contains(t, body, "비활성")
	assert.Contains(t, body, "저장되었습니다.")
}

func TestAdminToggleAndDeleteRedirect(t *testing.T) {
	f := newFixture(t)
	f.posts.On("ToggleStatus", mock.Anything, int64(3)).Return(models.PostView{ID: 3}, nil).Once()
	f.posts.On("Delete", mock.Anything, int64(3)).Return(nil).Once()

	w := f.do(f.withCookie(t, formRequest("/admin/posts/toggle", url.Values{"id": {"3"}})))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/posts?flash=toggled", w.Header().Get("Location"))

	w = f.do(f.withCookie(t, formRequest("/admin/posts/delete", url.Values{"id": {"3"}})))
	assert.Equal(t, "/admin/posts?flash=deleted", w.Header().Get("Location"))
	f.posts.AssertExpectations(t)
}

func TestAdminWriteEditLoadsHiddenPost(t *testing.T) {
	f := newFixture(t)
	f.posts.On("Get", mock.Anything, int64(8), service.GetOptions{IncludeHidden: true}).
		Return(models.PostView{ID: 8, Title: "수정할 글", PublishedAt: "2024-01-03T10:30:00",
			Attachments: []models.AttachmentView{{ID: 4, Name: "old.pdf", Path: "/api/attachments/4"}}}, nil).Once()

	w := f.do(f.withCookie(t, httptest.NewRequest(http.MethodGet, "/admin/posts/write?id=8", nil)))
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "수정할 글")
	assert.Contains(t, body, "2024-01-03T10:30")
	assert.Contains(t, body, "old.pdf")
}

func TestAdminSaveUploadsAndSaves(t *testing.T) {
	f := newFixture(t)
	budget := f.cfg.UploadMaxTotalBytes()
	f.posts.On("Get", mock.Anything, int64(8), service.GetOptions{IncludeHidden: true}).
		Return(models.PostView{ID: 8, Attachments: []models.AttachmentView{
			{ID: 4, Name: "keep.pdf", Path: "/api/attachments/4", Size: 10},
			{ID: 5, Name: "drop.pdf", Path: "/uploads/attachments/drop.pdf", Size: 10},
		}}, nil).Once()
	f.files.On("Save", "new.pdf", budget, false).
		Return(service.UploadedFile{Name: "new.pdf", Path: "/uploads/attachments/1_new.pdf", Size: 20}, nil).Once()
	f.posts.On("Save", mock.Anything, mock.MatchedBy(func(in service.PostInput) bool {
		items := in.Attachments.Items
		return in.ID != nil && *in.ID == 8 && *in.Title == "제목" && *in.Status &&
			in.Attachments.Set && len(items) == 2 &&
			items[0].ID == 4 && items[1].Path == "/uploads/attachments/1_new.pdf"
	})).Return(service.SaveResult{Post: models.PostView{ID: 8}}, nil).Once()

	body, ct := multipartBody(t, map[string]string{
		"id": "8", "title": "제목", "category": "공지", "content": "<p>x</p>", "status": "true", "keepAttachment": "4",
	}, map[string][]string{"attachments": {"new.pdf"}})
	req := httptest.NewRequest(http.MethodPost, "/admin/posts/write", body)
	req.Header.Set("Content-Type", ct)
	w := f.do(f.withCookie(t, req))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/posts?flash=saved", w.Header().Get("Location"))
	f.posts.AssertExpectations(t)
	f.files.AssertExpectations(t)
}

func TestAdminSaveFailureRemovesUploads(t *testing.T) {
	f := newFixture(t)
	f.files.On("Save", "body.png", mock.Anything, true).
		Return(service.UploadedFile{Name: "body.jpg", Path: "/uploads/attachments/1_body.jpg", Size: 20}, nil).Once()
	f.posts.On("Save", mock.Anything, mock.MatchedBy(func(in service.PostInput) bool {
		return in.ID == nil && in.Content != nil && *in.Content == `<p>x</p><p><img src="/uploads/attachments/1_body.jpg" alt="body.jpg"></p>`
	})).Return(service.SaveResult{}, service.ErrInvalidInput).Once()
	f.files.On("Remove", "/uploads/attachments/1_body.jpg").Return(nil).Once()

	body, ct := multipartBody(t, map[string]string{"title": "", "category": "공지", "content": "<p>x</p>"},
		map[string][]string{"bodyImages": {"body.png"}})
	req := httptest.NewRequest(http.MethodPost, "/admin/posts/write", body)
	req.Header.Set("Content-Type", ct)
	w := f.do(f.withCookie(t, req))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "입력값을 확인해 주세요")
	f.files.AssertExpectations(t)
}

func TestAdminFeaturedRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	f.featured.On("Set", mock.Anything, mock.Anything).Return(models.FeaturedSlots{}, service.ErrDuplicateSlot).Once()
	f.posts.On("List", mock.Anything, service.ListQuery{Admin: true}).
		Return(service.ListResult{Posts: []models.PostView{{ID: 1, Title: "첫 글"}}}, nil).Once()

	w := f.do(f.withCookie(t, formRequest("/admin/featured", url.Values{"slot1": {"1"}, "slot2": {"1"}, "slot3": {""}})))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "같은 게시글을 여러 칸에 지정할 수 없습니다.")
	f.featured.AssertExpectations(t)
}

func TestAdminFeaturedSaves(t *testing.T) {
	f := newFixture(t)
	f.featured.On("Set", mock.Anything, mock.MatchedBy(func(s models.FeaturedSlots) bool {
		return s.Slot1ID != nil && *s.Slot1ID == 1 && s.Slot2ID == nil && s.Slot3ID != nil && *s.Slot3ID == 2
	})).Return(models.FeaturedSlots{}, nil).Once()

	w := f.do(f.withCookie(t, formRequest("/admin/featured", url.Values{"slot1": {"1"}, "slot2": {""}, "slot3": {"2"}})))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/featured?flash=featured", w.Header().Get("Location"))
}
