package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/utils"
)

// FeaturedController exposes /api/featured.
type FeaturedController struct {
	featured FeaturedService
}

func NewFeaturedController(featured FeaturedService) *FeaturedController {
	return &FeaturedController{featured: featured}
}

// GetFeatured returns the three slot ids, null for empty slots.
func (f *FeaturedController) GetFeatured(ctx *gin.Context) {
	key := utils.CachePrefixFeatured + "slots"
	var slots models.FeaturedSlots
	if utils.CacheGetJSON(ctx.Request.Context(), key, &slots) {
		utils.Success(ctx, slots)
		return
	}
	slots, err := f.featured.Get(ctx.Request.Context())
	if err != nil {
		writeServiceError(ctx, err, "featured slots not found")
		return
	}
	utils.CacheSetJSON(ctx.Request.Context(), key, slots)
	utils.Success(ctx, slots)
}

// GetFeaturedPosts returns the visible posts behind the slots, in order.
func (f *FeaturedController) GetFeaturedPosts(ctx *gin.Context) {
	key := utils.CachePrefixFeatured + "posts"
	var posts []models.PostView
	if utils.CacheGetJSON(ctx.Request.Context(), key, &posts) {
		utils.Success(ctx, posts)
		return
	}
	posts, err := f.featured.Posts(ctx.Request.Context())
	if err != nil {
		writeServiceError(ctx, err, "featured posts not found")
		return
	}
	utils.CacheSetJSON(ctx.Request.Context(), key, posts)
	utils.Success(ctx, posts)
}

// SetFeatured stores all three slots.
func (f *FeaturedController) SetFeatured(ctx *gin.Context) {
	var req models.FeaturedSlots
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid JSON payload")
		return
	}
	slots, err := f.featured.Set(ctx.Request.Context(), req)
	if err != nil {
		writeServiceError(ctx, err, "featured slots not found")
		return
	}
	invalidatePublicCache(ctx)
	utils.Success(ctx, slots)
}
