package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/apperr"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/font"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/font/service"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/preview"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/storage"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/logger"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/response"
)

// multipartSlack is added to the upload limit so the multipart framing of a
// file exactly at the limit still reaches the service's own size check.
const multipartSlack = 1 << 20

const presignTTL = 15 * time.Minute

// Service is what the HTTP layer needs from the font service.
type Service interface {
	Save(ctx context.Context, up *service.Upload) (*font.Font, error)
	Delete(ctx context.Context, filename string) error
	List(ctx context.Context) ([]*font.Font, error)
	Open(ctx context.Context, filename string) (io.ReadCloser, storage.Object, error)
	MaxBytes() int64
}

// Presigner is implemented by backends that can hand out direct download URLs.
type Presigner interface {
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

type handler struct {
	svc     Service
	presign Presigner
}

// RegisterFontRoutes mounts the font endpoints on r (normally the /api group).
// guard, when non-nil, runs in front of upload and delete.
func RegisterFontRoutes(r gin.IRouter, svc Service, guard gin.HandlerFunc) {
	h := &handler{svc: svc}
	write := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		if guard == nil {
			return []gin.HandlerFunc{fn}
		}
		return []gin.HandlerFunc{guard, fn}
	}

	r.POST("/upload-font", write(h.upload)...)
	r.GET("/get-fonts", h.list)
	r.POST("/delete-font", write(h.delete)...)
	r.DELETE("/delete-font", write(h.delete)...)
	r.GET("/serve-font", h.serve)
	r.GET("/font-faces.css", h.faces)
}

// RegisterUploadRoutes mounts GET /uploads/:filename, the public path stored
// in every font record. With a Presigner the client is redirected to the
// object store instead of being proxied.
func RegisterUploadRoutes(r gin.IRouter, svc Service, presign Presigner) {
	h := &handler{svc: svc, presign: presign}
	r.GET(strings.TrimSuffix(font.PathPrefix, "/")+"/:filename", h.uploads)
}

func (h *handler) upload(c *gin.Context) {
	limit := h.svc.MaxBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartSlack)

	fh, err := c.FormFile("font")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			response.Error(c, apperr.Validation(font.TooLargeMessage(limit)))
			return
		}
		response.Error(c, apperr.Validation(font.MsgNoFile))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, apperr.IO(font.MsgSaveFailed, err))
		return
	}
	defer f.Close()

	rec, err := h.svc.Save(c.Request.Context(), &service.Upload{Filename: fh.Filename, Size: fh.Size, Body: f})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rec, "Font uploaded successfully.")
}

func (h *handler) list(c *gin.Context) {
	fonts, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, fonts, "Fonts retrieved successfully.")
}

func (h *handler) delete(c *gin.Context) {
	var req struct {
		Filename *string `json:"filename"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Filename == nil {
		response.Error(c, apperr.Validation(font.MsgFilenameRequired))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), *req.Filename); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil, "Font deleted successfully.")
}

func (h *handler) serve(c *gin.Context) {
	name := c.Query("filename")
	if name == "" {
		response.Fail(c, http.StatusBadRequest, "Filename is required")
		return
	}
	h.stream(c, name)
}

func (h *handler) uploads(c *gin.Context) {
	name := font.CleanFilename(c.Param("filename"))
	if h.presign != nil && name != "" {
		u, err := h.presign.GetPresignedURL(c.Request.Context(), name, presignTTL)
		if err == nil {
			c.Redirect(http.StatusTemporaryRedirect, u)
			return
		}
		logger.Warnf("presign %s: %v", name, err)
	}
	h.stream(c, name)
}

func (h *handler) stream(c *gin.Context, name string) {
	rc, obj, err := h.svc.Open(c.Request.Context(), name)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			response.Fail(c, http.StatusNotFound, "Font not found")
			return
		}
		response.Error(c, err)
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	extra := map[string]string{}
	if !obj.ModTime.IsZero() {
		extra["Last-Modified"] = obj.ModTime.UTC().Format(http.TimeFormat)
	}
	size := obj.Size
	if size <= 0 {
		size = -1
	}
	c.DataFromReader(http.StatusOK, size, font.ContentType, rc, extra)
}

func (h *handler) faces(c *gin.Context) {
	fonts, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	var buf bytes.Buffer
	if err := preview.WriteStylesheet(&buf, fonts); err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/css; charset=utf-8", buf.Bytes())
}
