package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/service"
	"github.com/ewhacare/accessdesk/utils"
)

// PostService is the post behaviour the HTTP layer depends on.
type PostService interface {
	List(ctx context.Context, q service.ListQuery) (service.ListResult, error)
	Get(ctx context.Context, id int64, opts service.GetOptions) (models.PostView, error)
	Save(ctx context.Context, in service.PostInput) (service.SaveResult, error)
	ToggleStatus(ctx context.Context, id int64) (models.PostView, error)
	Delete(ctx context.Context, id int64) error
	Attachment(ctx context.Context, id uint, includeHidden bool) (models.Attachment, error)
}

// FeaturedService is the featured-slot behaviour the HTTP layer depends on.
type FeaturedService interface {
	Get(ctx context.Context) (models.FeaturedSlots, error)
	Set(ctx context.Context, slots models.FeaturedSlots) (models.FeaturedSlots, error)
	Posts(ctx context.Context) ([]models.PostView, error)
}

// FileStore stores and removes uploaded files.
type FileStore interface {
	Save(original string, r io.Reader, limit int64, compress bool) (service.UploadedFile, error)
	Remove(webPath string) error
}

// writeServiceError maps service and repo errors onto the response envelope.
func writeServiceError(ctx *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, notFoundMsg)
	case errors.Is(err, service.ErrDuplicateSlot):
		utils.Error(ctx, http.StatusBadRequest, 40011, err.Error())
	case errors.Is(err, service.ErrUnknownSlotPost):
		utils.Error(ctx, http.StatusBadRequest, 40012, err.Error())
	case errors.Is(err, service.ErrTooManyImages):
		utils.Error(ctx, http.StatusBadRequest, 40013, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		utils.Error(ctx, http.StatusBadRequest, 40010, err.Error())
	case errors.Is(err, service.ErrTooLarge):
		utils.Error(ctx, http.StatusRequestEntityTooLarge, 41301, err.Error())
	default:
		utils.Sugar.Errorw("request failed", "path", ctx.FullPath(), "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50001, "internal server error")
	}
}

func isNotFound(err error) bool { return errors.Is(err, service.ErrNotFound) }

func isInvalid(err error) bool { return errors.Is(err, service.ErrInvalidInput) }
