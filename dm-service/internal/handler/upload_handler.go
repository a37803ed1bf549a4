package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/choosenname/OneTeam/dm-service/internal/audit"
	"github.com/choosenname/OneTeam/dm-service/internal/domain"
	"github.com/choosenname/OneTeam/pkg/log"
	"github.com/choosenname/OneTeam/pkg/middleware"
	"github.com/choosenname/OneTeam/pkg/response"
	"github.com/choosenname/OneTeam/pkg/storage"
)

const (
	MsgFileMissing          = "File missing"
	MsgFileTooLarge         = "File too large"
	MsgUnsupportedFileType  = "Unsupported file type"
	MsgPresignNotSupported  = "Presigned upload not supported"
	MsgInvalidPresignParams = "File name and content type required"

	uploadFormField = "file"
	sniffLen        = 3072
)

// UploadHandler stores message attachments and hands back their fileUrl.
type UploadHandler struct {
	store          storage.Storage
	authMiddleware *middleware.AuthMiddleware
	maxSize        int64
	presignExpiry  time.Duration
}

func NewUploadHandler(store storage.Storage, authMiddleware *middleware.AuthMiddleware, maxSize int64, presignExpiry time.Duration) *UploadHandler {
	return &UploadHandler{
		store:          store,
		authMiddleware: authMiddleware,
		maxSize:        maxSize,
		presignExpiry:  presignExpiry,
	}
}

func (h *UploadHandler) RegisterRoutes(r *gin.Engine) {
	uploads := r.Group("/api/uploads", h.authMiddleware.RequireAuth())
	{
		uploads.POST("", h.Upload)
		uploads.POST("/presign", h.Presign)
	}

	if local, ok := h.store.(*storage.LocalStorage); ok {
		r.Static(local.URLPrefix(), local.BasePath())
	}
}

// allowedTypes lists what may be served back from our own origin. No SVG or HTML.
var allowedTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

func allowedType(mime string) bool {
	return allowedTypes[strings.ToLower(strings.TrimSpace(mime))]
}

func attachmentKey(userID, ext string) string {
	return fmt.Sprintf("attachments/%s/%s%s", userID, uuid.New().String(), ext)
}

// Upload stores a multipart attachment after sniffing its content type.
func (h *UploadHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+1<<20)

	fh, err := c.FormFile(uploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, MsgFileTooLarge)
			return
		}
		response.BadRequest(c, MsgFileMissing)
		return
	}
	if fh.Size > h.maxSize {
		response.Error(c, http.StatusRequestEntityTooLarge, MsgFileTooLarge)
		return
	}

	f, err := fh.Open()
	if err != nil {
		l.Error().Err(err).Msg("failed to open uploaded file")
		response.InternalError(c)
		return
	}
	defer f.Close()

	mtype, err := sniff(f)
	if err != nil {
		l.Error().Err(err).Msg("failed to sniff uploaded file")
		response.InternalError(c)
		return
	}
	if !allowedType(mtype.String()) {
		response.Error(c, http.StatusUnsupportedMediaType, MsgUnsupportedFileType)
		return
	}

	key := attachmentKey(userID, mtype.Extension())
	if err := h.store.Put(ctx, key, f, fh.Size, mtype.String()); err != nil {
		l.Error().Err(err).Str("key", key).Msg("failed to store attachment")
		response.InternalError(c)
		return
	}

	url, err := h.store.URL(ctx, key)
	if err != nil {
		l.Error().Err(err).Str("key", key).Msg("failed to build attachment url")
		if delErr := h.store.Delete(ctx, key); delErr != nil {
			l.Warn().Err(delErr).Str("key", key).Msg("failed to remove orphaned attachment")
		}
		response.InternalError(c)
		return
	}

	audit.Log(ctx, audit.ActionUploadAttachment, userID, "attachment stored")
	response.Success(c, &domain.UploadResponse{FileURL: url})
}

// sniff detects the content type from the first bytes and rewinds the file.
func sniff(f multipart.File) (*mimetype.MIME, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return mimetype.Detect(head[:n]), nil
}

// Presign returns a direct upload URL on drivers that support it.
func (h *UploadHandler) Presign(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	presigner, ok := h.store.(storage.Presigner)
	if !ok {
		response.Error(c, http.StatusNotImplemented, MsgPresignNotSupported)
		return
	}

	var req domain.PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, MsgInvalidPresignParams)
		return
	}
	if !allowedType(req.ContentType) {
		response.Error(c, http.StatusUnsupportedMediaType, MsgUnsupportedFileType)
		return
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(req.FileName)))
	key := attachmentKey(userID, ext)

	uploadURL, err := presigner.PresignUpload(ctx, key, req.ContentType, h.presignExpiry)
	if err != nil {
		l.Error().Err(err).Str("key", key).Msg("failed to presign upload")
		response.InternalError(c)
		return
	}

	fileURL, err := h.store.URL(ctx, key)
	if err != nil {
		l.Error().Err(err).Str("key", key).Msg("failed to build attachment url")
		response.InternalError(c)
		return
	}

	response.Success(c, &domain.PresignResponse{UploadURL: uploadURL, FileURL: fileURL})
}
