package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ewhacare/accessdesk/middleware"
	"github.com/ewhacare/accessdesk/service"
	"github.com/ewhacare/accessdesk/utils"
)

// PostController exposes /api/posts.
type PostController struct {
	posts        PostService
	maxBodyBytes int64
}

// NewPostController creates a PostController. maxBodyBytes caps JSON
// payloads, which may carry inline images.
func NewPostController(posts PostService, maxBodyBytes int64) *PostController {
	return &PostController{posts: posts, maxBodyBytes: maxBodyBytes}
}

func parsePostID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return id, err == nil && id > 0
}

func queryInt(ctx *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(ctx.Query(key)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ListPosts serves GET /api/posts. With ?id= it returns one post instead.
func (p *PostController) ListPosts(ctx *gin.Context) {
	if raw, ok := ctx.GetQuery("id"); ok {
		p.getPost(ctx, raw)
		return
	}

	admin := middleware.IsAdmin(ctx)
	q := service.ListQuery{
		Admin:    admin,
		Category: strings.TrimSpace(ctx.Query("category")),
		Status:   strings.TrimSpace(ctx.Query("status")),
		Search:   strings.TrimSpace(ctx.Query("search")),
		Page:     queryInt(ctx, "page"),
		PageSize: queryInt(ctx, "page_size"),
	}

	var cacheKey string
	if !admin {
		cacheKey = utils.CachePrefixPosts + listCacheKey(q)
		var cached service.ListResult
		if utils.CacheGetJSON(ctx.Request.Context(), cacheKey, &cached) {
			utils.Success(ctx, cached)
			return
		}
	}

	res, err := p.posts.List(ctx.Request.Context(), q)
	if err != nil {
		writeServiceError(ctx, err, "post not found")
		return
	}
	if cacheKey != "" {
		utils.CacheSetJSON(ctx.Request.Context(), cacheKey, res)
	}
	utils.Success(ctx, res)
}

func listCacheKey(q service.ListQuery) string {
	v := url.Values{}
	v.Set("c", q.Category)
	v.Set("s", q.Search)
	v.Set("p", strconv.Itoa(q.Page))
	v.Set("n", strconv.Itoa(q.PageSize))
	return v.Encode()
}

func (p *PostController) getPost(ctx *gin.Context, raw string) {
	id, ok := parsePostID(raw)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid post id")
		return
	}
	opts := service.GetOptions{
		IncrementView: ctx.Query("incrementView") == "true",
		IncludeHidden: middleware.IsAdmin(ctx),
	}
	view, err := p.posts.Get(ctx.Request.Context(), id, opts)
	if err != nil {
		writeServiceError(ctx, err, "post not found")
		return
	}
	if opts.IncrementView {
		middleware.PostViewsTotal.Inc()
	}
	utils.Success(ctx, view)
}

// SavePost serves POST /api/posts: update when the id exists, else create.
func (p *PostController) SavePost(ctx *gin.Context) {
	if p.maxBodyBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, p.maxBodyBytes)
	}
	body, err := ctx.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.Error(ctx, http.StatusRequestEntityTooLarge, 41301, "request body too large")
			return
		}
		utils.Error(ctx, http.StatusBadRequest, 40002, "failed to read request body")
		return
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		utils.Error(ctx, http.StatusBadRequest, 40003, "bulk import is not accepted over HTTP; use the importer command")
		return
	}

	var in service.PostInput
	if err := json.Unmarshal(trimmed, &in); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid JSON payload")
		return
	}

	res, err := p.posts.Save(ctx.Request.Context(), in)
	if err != nil {
		writeServiceError(ctx, err, "post not found")
		return
	}
	invalidatePublicCache(ctx)
	if res.Created {
		utils.Created(ctx, res)
		return
	}
	utils.Success(ctx, res)
}

// ToggleStatus serves PATCH /api/posts/status?id=.
func (p *PostController) ToggleStatus(ctx *gin.Context) {
	id, ok := parsePostID(ctx.Query("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid post id")
		return
	}
	view, err := p.posts.ToggleStatus(ctx.Request.Context(), id)
	if err != nil {
		writeServiceError(ctx, err, "post not found")
		return
	}
	invalidatePublicCache(ctx)
	utils.Success(ctx, view)
}

// DeletePost serves DELETE /api/posts?id=.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := parsePostID(ctx.Query("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid post id")
		return
	}
	if err := p.posts.Delete(ctx.Request.Context(), id); err != nil {
		writeServiceError(ctx, err, "post not found")
		return
	}
	invalidatePublicCache(ctx)
	utils.Success(ctx, gin.H{"id": id})
}

func invalidatePublicCache(ctx *gin.Context) {
	utils.InvalidateByPrefix(ctx.Request.Context(), utils.CachePrefixPosts, utils.CachePrefixFeatured)
}
