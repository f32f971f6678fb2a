package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docsum/doc-summarizer/internal/domain/summary"
	"github.com/docsum/doc-summarizer/internal/infra/config"
	apperrors "github.com/docsum/doc-summarizer/pkg/errors"
)

// HealthChecker probes the remote summarization capability.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// SummaryHandler wires the HTTP transport to the summary domain.
type SummaryHandler struct {
	svc    summary.Service
	health HealthChecker
	upload config.UploadConfig
	logger *slog.Logger
}

// NewSummaryHandler constructs the root HTTP handler.
func NewSummaryHandler(svc summary.Service, health HealthChecker, cfg *config.Config, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{
		svc:    svc,
		health: health,
		upload: cfg.Upload,
		logger: logger.With("component", "http.handler"),
	}
}

// Summarize handles the summarization endpoint. It accepts a JSON body or a
// multipart form whose optional file field replaces the text field.
func (h *SummaryHandler) Summarize(c *gin.Context) {
	req, httpErr := h.bindRequest(c)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}

	resp, err := h.svc.Summarize(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if apperrors.IsCode(err, apperrors.CodeInvalidInput) {
			status = http.StatusBadRequest
		}
		abortWithError(c, NewHTTPError(status, "summarize_failed", errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Health reports remote reachability. Always 200; the body carries status.
func (h *SummaryHandler) Health(c *gin.Context) {
	remoteOK := false
	note := ""
	if h.health == nil {
		note = "remote client not configured"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		if err := h.health.Ping(ctx); err != nil {
			note = errMessage(err)
		} else {
			remoteOK = true
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"summarizerReady": true,
		"remoteOk":        remoteOK,
		"note":            note,
	})
}

func (h *SummaryHandler) bindRequest(c *gin.Context) (summary.Request, *HTTPError) {
	contentType := c.GetHeader("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var req summary.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			return summary.Request{}, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err)
		}
		return req, nil
	}

	req := summary.Request{
		Text:  strings.TrimSpace(c.PostForm("text")),
		Style: c.PostForm("style"),
	}
	fileHeader, err := c.FormFile("file")
	if err != nil && req.Text == "" {
		return summary.Request{}, NewHTTPError(http.StatusBadRequest, "invalid_request", "no input provided: paste text or upload a file", err)
	}
	if fileHeader != nil {
		content, httpErr := h.readUpload(fileHeader)
		if httpErr != nil {
			return summary.Request{}, httpErr
		}
		req.Text = content
	}
	return req, nil
}

func (h *SummaryHandler) readUpload(fileHeader *multipart.FileHeader) (string, *HTTPError) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !h.extensionAllowed(ext) {
		msg := fmt.Sprintf("unsupported file type %q: allowed %s", ext, strings.Join(h.upload.AllowedExtensions, ", "))
		return "", NewHTTPError(http.StatusBadRequest, "invalid_request", msg, nil)
	}
	if fileHeader.Size > h.upload.MaxFileBytes {
		msg := fmt.Sprintf("file exceeds the %d byte limit", h.upload.MaxFileBytes)
		return "", NewHTTPError(http.StatusRequestEntityTooLarge, "invalid_request", msg, nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read upload", err)
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, h.upload.MaxFileBytes+1))
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "upload_failed", "failed to read file", err)
	}
	if int64(len(data)) > h.upload.MaxFileBytes {
		msg := fmt.Sprintf("file exceeds the %d byte limit", h.upload.MaxFileBytes)
		return "", NewHTTPError(http.StatusRequestEntityTooLarge, "invalid_request", msg, nil)
	}
	return string(data), nil
}

func (h *SummaryHandler) extensionAllowed(ext string) bool {
	for _, allowed := range h.upload.AllowedExtensions {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
