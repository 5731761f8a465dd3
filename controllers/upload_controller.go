package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ewhacare/accessdesk/middleware"
	"github.com/ewhacare/accessdesk/service"
	"github.com/ewhacare/accessdesk/utils"
)

// multipartOverhead allows for boundaries and part headers on top of the
// file bytes themselves.
const multipartOverhead = 1 << 20

// UploadController exposes /api/upload.
type UploadController struct {
	files    FileStore
	maxTotal int64
}

func NewUploadController(files FileStore, maxTotal int64) *UploadController {
	return &UploadController{files: files, maxTotal: maxTotal}
}

// Upload stores every "files" part of a multipart request and returns their
// public paths. The request as a whole may not exceed maxTotal bytes of file
// content. On failure, files already written by the request are removed.
func (u *UploadController) Upload(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, u.maxTotal+multipartOverhead)
	reader, err := ctx.Request.MultipartReader()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "multipart form expected")
		return
	}

	compress := ctx.Query("compress") == "true"
	remaining := u.maxTotal
	var stored []service.UploadedFile
	fail := func(err error) {
		for _, f := range stored {
			_ = u.files.Remove(f.Path)
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = service.ErrTooLarge
		}
		writeServiceError(ctx, err, "upload not found")
	}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			fail(err)
			return
		}

		switch part.FormName() {
		case "compress":
			v, _ := io.ReadAll(io.LimitReader(part, 16))
			compress = strings.TrimSpace(string(v)) == "true"
		case "files":
			if part.FileName() == "" {
				continue
			}
			f, err := u.files.Save(part.FileName(), part, remaining, compress)
			if err != nil {
				fail(err)
				return
			}
			remaining -= f.Size
			stored = append(stored, f)
			middleware.UploadedBytesTotal.Add(float64(f.Size))
		}
		_ = part.Close()
	}

	if len(stored) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40021, "no files uploaded")
		return
	}
	utils.Success(ctx, gin.H{"files": stored})
}

// DeleteUpload removes a stored file named by ?path=.
func (u *UploadController) DeleteUpload(ctx *gin.Context) {
	path := ctx.Query("path")
	if err := u.files.Remove(path); err != nil {
		writeServiceError(ctx, err, "file not found")
		return
	}
	utils.Success(ctx, gin.H{"path": path})
}
