package controllers

import (
	"errors"
	"fmt"
	"html"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ewhacare/accessdesk/config"
	"github.com/ewhacare/accessdesk/middleware"
	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/service"
	"github.com/ewhacare/accessdesk/utils"
)

const datetimeLocalLayout = "2006-01-02T15:04"

var adminFlashes = map[string]string{
	"saved":    "저장되었습니다.",
	"deleted":  "삭제되었습니다.",
	"toggled":  "노출 상태가 변경되었습니다.",
	"featured": "추천 게시글이 저장되었습니다.",
}

// AdminPageController renders the server-side admin panel.
type AdminPageController struct {
	auth     *AuthController
	posts    PostService
	featured FeaturedService
	files    FileStore
	site     SiteInfo
	maxTotal int64
	now      func() time.Time
}

func NewAdminPageController(auth *AuthController, posts PostService, featured FeaturedService, files FileStore, cfg config.AppConfig) *AdminPageController {
	return &AdminPageController{
		auth:     auth,
		posts:    posts,
		featured: featured,
		files:    files,
		site:     siteInfo(cfg),
		maxTotal: cfg.UploadMaxTotalBytes(),
		now:      time.Now,
	}
}

func (a *AdminPageController) page(ctx *gin.Context, title string) gin.H {
	data := basePage(ctx, a.site, title)
	data["Flash"] = adminFlashes[ctx.Query("flash")]
	return data
}

// Index sends the admin to the post list, or to login.
func (a *AdminPageController) Index(ctx *gin.Context) {
	if middleware.IsAdmin(ctx) {
		ctx.Redirect(http.StatusSeeOther, "/admin/posts")
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/admin/login")
}

func (a *AdminPageController) LoginPage(ctx *gin.Context) {
	next := safeReturnPath(ctx.Query("next"), "/admin/posts")
	if middleware.IsAdmin(ctx) {
		ctx.Redirect(http.StatusSeeOther, next)
		return
	}
	data := a.page(ctx, "관리자 로그인")
	data["Next"] = next
	ctx.HTML(http.StatusOK, "admin_login.html", data)
}

func (a *AdminPageController) Login(ctx *gin.Context) {
	next := safeReturnPath(ctx.PostForm("next"), "/admin/posts")
	token, _, err := a.auth.startSession(ctx, ctx.PostForm("username"), ctx.PostForm("password"))
	if err != nil || token == "" {
		status, msg := http.StatusUnauthorized, "아이디 또는 비밀번호가 올바르지 않습니다."
		if err != nil {
			utils.Sugar.Errorw("token generation failed", "error", err)
			status, msg = http.StatusInternalServerError, "로그인 처리 중 오류가 발생했습니다."
		}
		data := a.page(ctx, "관리자 로그인")
		data["Next"] = next
		data["Error"] = msg
		ctx.HTML(status, "admin_login.html", data)
		return
	}
	ctx.Redirect(http.StatusSeeOther, next)
}

func (a *AdminPageController) Logout(ctx *gin.Context) {
	a.auth.endSession(ctx)
	ctx.Redirect(http.StatusSeeOther, "/admin/login")
}

// Posts lists every post with category, status and title filters.
func (a *AdminPageController) Posts(ctx *gin.Context) {
	page := queryInt(ctx, "page")
	if page < 1 {
		page = 1
	}
	category := strings.TrimSpace(ctx.Query("category"))
	status := strings.TrimSpace(ctx.Query("status"))
	search := strings.TrimSpace(ctx.Query("search"))

	res, err := a.posts.List(ctx.Request.Context(), service.ListQuery{
		Admin:    true,
		Category: category,
		Status:   status,
		Search:   search,
		Page:     page,
		PageSize: service.DefaultPageSize,
	})
	data := a.page(ctx, "게시글 관리")
	if err != nil {
		if !isInvalid(err) {
			utils.Sugar.Errorw("admin list failed", "error", err)
		}
		data["Error"] = "게시글 목록을 불러오지 못했습니다."
	}
	data["Result"] = res
	data["Category"] = category
	data["Status"] = status
	data["Search"] = search
	data["Pages"] = pageCount(res.Total, res.PageSize)
	data["Query"] = pagerQuery(map[string]string{"category": category, "status": status, "search": search})
	ctx.HTML(http.StatusOK, "admin_posts.html", data)
}

func (a *AdminPageController) postAction(ctx *gin.Context, flash string, fn func(id int64) error) {
	id, ok := parsePostID(ctx.PostForm("id"))
	if !ok {
		renderError(ctx, a.site, http.StatusNotFound, "게시글을 찾을 수 없습니다.")
		return
	}
	if err := fn(id); err != nil {
		if isNotFound(err) {
			renderError(ctx, a.site, http.StatusNotFound, "게시글을 찾을 수 없습니다.")
			return
		}
		utils.Sugar.Errorw("admin post action failed", "id", id, "error", err)
		renderError(ctx, a.site, http.StatusInternalServerError, "처리 중 오류가 발생했습니다.")
		return
	}
	invalidatePublicCache(ctx)
	ctx.Redirect(http.StatusSeeOther, "/admin/posts?flash="+flash)
}

func (a *AdminPageController) Toggle(ctx *gin.Context) {
	a.postAction(ctx, "toggled", func(id int64) error {
		_, err := a.posts.ToggleStatus(ctx.Request.Context(), id)
		return err
	})
}

func (a *AdminPageController) Delete(ctx *gin.Context) {
	a.postAction(ctx, "deleted", func(id int64) error {
		return a.posts.Delete(ctx.Request.Context(), id)
	})
}

func (a *AdminPageController) renderWrite(ctx *gin.Context, status int, post models.PostView, errMsg string) {
	title := "새 글 작성"
	if post.ID != 0 {
		title = "게시글 수정"
	}
	data := a.page(ctx, title)
	data["Post"] = post
	data["PublishedAtInput"] = datetimeLocal(post.PublishedAt)
	data["Error"] = errMsg
	ctx.HTML(status, "admin_write.html", data)
}

func datetimeLocal(wire string) string {
	t, err := time.ParseInLocation(models.TimeLayout, wire, time.Local)
	if err != nil {
		return ""
	}
	return t.Format(datetimeLocalLayout)
}

// Write renders the editor: empty without ?id=, else for the existing post,
// hidden or not.
func (a *AdminPageController) Write(ctx *gin.Context) {
	raw, editing := ctx.GetQuery("id")
	if !editing {
		a.renderWrite(ctx, http.StatusOK, models.PostView{
			Category:    models.CategoryNotice,
			Status:      true,
			PublishedAt: a.now().Format(models.TimeLayout),
		}, "")
		return
	}
	id, ok := parsePostID(raw)
	if !ok {
		renderError(ctx, a.site, http.StatusNotFound, "게시글을 찾을 수 없습니다.")
		return
	}
	view, err := a.posts.Get(ctx.Request.Context(), id, service.GetOptions{IncludeHidden: true})
	if err != nil {
		if isNotFound(err) {
			renderError(ctx, a.site, http.StatusNotFound, "게시글을 찾을 수 없습니다.")
			return
		}
		utils.Sugar.Errorw("admin edit failed", "id", id, "error", err)
		renderError(ctx, a.site, http.StatusInternalServerError, "처리 중 오류가 발생했습니다.")
		return
	}
	a.renderWrite(ctx, http.StatusOK, view, "")
}

// uploadBatch stores form files against one shared byte budget and can undo
// itself.
type uploadBatch struct {
	files     FileStore
	remaining int64
	saved     []string
}

func (b *uploadBatch) save(fh *multipart.FileHeader, compress bool) (service.UploadedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return service.UploadedFile{}, err
	}
	defer f.Close()
	up, err := b.files.Save(fh.Filename, f, b.remaining, compress)
	if err != nil {
		return service.UploadedFile{}, err
	}
	b.remaining -= up.Size
	b.saved = append(b.saved, up.Path)
	middleware.UploadedBytesTotal.Add(float64(up.Size))
	return up, nil
}

func (b *uploadBatch) rollback() {
	for _, p := range b.saved {
		if err := b.files.Remove(p); err != nil {
			utils.Sugar.Warnw("upload cleanup failed", "path", p, "error", err)
		}
	}
}

// Save handles the editor form. Thumbnail and body images are compressed;
// attachments are stored as sent. Files stored before a failure are removed.
func (a *AdminPageController) Save(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, a.maxTotal+1<<20)
	form, err := ctx.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			renderError(ctx, a.site, http.StatusRequestEntityTooLarge, "업로드 용량 한도를 초과했습니다.")
			return
		}
		renderError(ctx, a.site, http.StatusBadRequest, "잘못된 요청입니다.")
		return
	}

	var current models.PostView
	in := service.PostInput{}
	if raw := ctx.PostForm("id"); raw != "" {
		id, ok := parsePostID(raw)
		if !ok {
			renderError(ctx, a.site, http.StatusBadRequest, "잘못된 게시글 번호입니다.")
			return
		}
		current, err = a.posts.Get(ctx.Request.Context(), id, service.GetOptions{IncludeHidden: true})
		if err != nil && !isNotFound(err) {
			utils.Sugar.Errorw("admin save lookup failed", "id", id, "error", err)
			renderError(ctx, a.site, http.StatusInternalServerError, "처리 중 오류가 발생했습니다.")
			return
		}
		in.ID = &id
	}

	title := ctx.PostForm("title")
	category := ctx.PostForm("category")
	content := ctx.PostForm("content")
	status := ctx.PostForm("status") == "true"
	in.Title, in.Category, in.Status = &title, &category, &status
	if pa := strings.TrimSpace(ctx.PostForm("publishedAt")); pa != "" {
		in.PublishedAt = &pa
	}

	draft := current
	draft.Title, draft.Category, draft.Status, draft.Content = title, category, status, content

	batch := &uploadBatch{files: a.files, remaining: a.maxTotal}
	fail := func(err error) {
		batch.rollback()
		a.renderWrite(ctx, statusFor(err), draft, formError(err))
	}

	thumb := ctx.PostForm("thumbnailImage")
	if ctx.PostForm("removeThumbnail") == "true" {
		thumb = ""
	}
	if fhs := form.File["thumbnail"]; len(fhs) > 0 {
		up, err := batch.save(fhs[0], true)
		if err != nil {
			fail(err)
			return
		}
		thumb = up.Path
	}
	in.ThumbnailImage = &thumb

	var body strings.Builder
	body.WriteString(content)
	for _, fh := range form.File["bodyImages"] {
		up, err := batch.save(fh, true)
		if err != nil {
			fail(err)
			return
		}
		fmt.Fprintf(&body, `<p><img src="%s" alt="%s"></p>`, up.Path, html.EscapeString(up.Name))
	}
	merged := body.String()
	in.Content = &merged

	keep := make(map[uint]bool)
	for _, raw := range form.Value["keepAttachment"] {
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
			keep[uint(n)] = true
		}
	}
	items := make([]service.AttachmentInput, 0)
	for _, att := range current.Attachments {
		if keep[att.ID] {
			items = append(items, service.AttachmentInput{ID: att.ID, Name: att.Name, Path: att.Path, Size: att.Size})
		}
	}
	for _, fh := range form.File["attachments"] {
		up, err := batch.save(fh, false)
		if err != nil {
			fail(err)
			return
		}
		items = append(items, service.AttachmentInput{Name: up.Name, Path: up.Path, Size: up.Size})
	}
	in.Attachments = service.OptionalAttachments{Set: true, Items: items}

	if _, err := a.posts.Save(ctx.Request.Context(), in); err != nil {
		if !isInvalid(err) && !errors.Is(err, service.ErrTooLarge) && !errors.Is(err, service.ErrTooManyImages) {
			utils.Sugar.Errorw("admin save failed", "error", err)
		}
		fail(err)
		return
	}
	invalidatePublicCache(ctx)
	ctx.Redirect(http.StatusSeeOther, "/admin/posts?flash=saved")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrTooManyImages), errors.Is(err, service.ErrNotFound):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func formError(err error) string {
	switch {
	case errors.Is(err, service.ErrTooLarge):
		return "업로드 용량 한도를 초과했습니다: " + err.Error()
	case errors.Is(err, service.ErrTooManyImages):
		return "본문 이미지가 너무 많습니다: " + err.Error()
	case errors.Is(err, service.ErrInvalidInput):
		return "입력값을 확인해 주세요: " + err.Error()
	}
	return "저장 중 오류가 발생했습니다."
}

// Featured renders the three slot pickers over every post.
func (a *AdminPageController) Featured(ctx *gin.Context) {
	a.renderFeatured(ctx, http.StatusOK, nil, "")
}

func (a *AdminPageController) renderFeatured(ctx *gin.Context, status int, slots *models.FeaturedSlots, errMsg string) {
	data := a.page(ctx, "추천 게시글")
	if slots == nil {
		current, err := a.featured.Get(ctx.Request.Context())
		if err != nil {
			utils.Sugar.Errorw("featured load failed", "error", err)
			errMsg = "추천 게시글을 불러오지 못했습니다."
		}
		slots = &current
	}
	res, err := a.posts.List(ctx.Request.Context(), service.ListQuery{Admin: true})
	if err != nil {
		utils.Sugar.Errorw("featured post list failed", "error", err)
		errMsg = "게시글 목록을 불러오지 못했습니다."
	}
	data["Slots"] = []int64{deref(slots.Slot1ID), deref(slots.Slot2ID), deref(slots.Slot3ID)}
	data["Posts"] = res.Posts
	data["Error"] = errMsg
	ctx.HTML(status, "admin_featured.html", data)
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func formSlot(ctx *gin.Context, key string) (*int64, bool) {
	raw := strings.TrimSpace(ctx.PostForm(key))
	if raw == "" {
		return nil, true
	}
	id, ok := parsePostID(raw)
	if !ok {
		return nil, false
	}
	return &id, true
}

// SaveFeatured stores the slot pickers.
func (a *AdminPageController) SaveFeatured(ctx *gin.Context) {
	var slots models.FeaturedSlots
	targets := []**int64{&slots.Slot1ID, &slots.Slot2ID, &slots.Slot3ID}
	for i, dst := range targets {
		v, ok := formSlot(ctx, "slot"+strconv.Itoa(i+1))
		if !ok {
			a.renderFeatured(ctx, http.StatusBadRequest, &slots, "잘못된 게시글 번호입니다.")
			return
		}
		*dst = v
	}
	if _, err := a.featured.Set(ctx.Request.Context(), slots); err != nil {
		msg := "저장 중 오류가 발생했습니다."
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, service.ErrDuplicateSlot):
			msg = "같은 게시글을 여러 칸에 지정할 수 없습니다."
		case errors.Is(err, service.ErrUnknownSlotPost):
			msg = "존재하지 않는 게시글입니다."
		default:
			status = http.StatusInternalServerError
			utils.Sugar.Errorw("featured save failed", "error", err)
		}
		a.renderFeatured(ctx, status, &slots, msg)
		return
	}
	invalidatePublicCache(ctx)
	ctx.Redirect(http.StatusSeeOther, "/admin/featured?flash=featured")
}
