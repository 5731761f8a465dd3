package controllers

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ewhacare/accessdesk/middleware"
	"github.com/ewhacare/accessdesk/models"
	"github.com/ewhacare/accessdesk/utils"
)

// AttachmentController serves attachment downloads regardless of whether the
// bytes live on disk or inline in the database.
type AttachmentController struct {
	posts     PostService
	publicDir string
}

func NewAttachmentController(posts PostService, publicDir string) *AttachmentController {
	return &AttachmentController{posts: posts, publicDir: publicDir}
}

func contentDisposition(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}

// Download serves GET /api/attachments/:id.
func (a *AttachmentController) Download(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid attachment id")
		return
	}
	att, err := a.posts.Attachment(ctx.Request.Context(), uint(id), middleware.IsAdmin(ctx))
	if err != nil {
		writeServiceError(ctx, err, "attachment not found")
		return
	}

	src, err := att.Source()
	if err != nil {
		if errors.Is(err, models.ErrNoSource) {
			utils.Error(ctx, http.StatusNotFound, 40402, "attachment has no content")
			return
		}
		utils.Sugar.Warnw("undecodable legacy attachment", "id", att.ID, "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50002, "attachment data is corrupt")
		return
	}

	switch src.Kind {
	case models.SourceInline:
		ctx.Header("Content-Disposition", contentDisposition(att.Name))
		ctx.Data(http.StatusOK, src.MimeType, src.Data)
	default:
		fsPath, err := utils.ResolveUploadPath(a.publicDir, src.Path)
		if err != nil {
			ctx.Redirect(http.StatusFound, src.Path)
			return
		}
		if _, err := os.Stat(fsPath); err != nil {
			utils.Error(ctx, http.StatusNotFound, 40402, "attachment file is missing")
			return
		}
		ctx.Header("Content-Disposition", contentDisposition(att.Name))
		ctx.File(fsPath)
	}
}
