package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"casebank-backend/docx"
	"casebank-backend/service"

	"github.com/gin-gonic/gin"
)

// ExportHandler handles document and backup downloads
type ExportHandler struct {
	backupService *service.BackupService
}

// NewExportHandler creates a new export handler. backupService is nil
// outside the sqlite + local storage deployment.
func NewExportHandler(backupService *service.BackupService) *ExportHandler {
	return &ExportHandler{backupService: backupService}
}

// DocumentRequest represents the request body for an ad hoc Word
// document export
type DocumentRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// BuildDocument handles POST /api/documents
func (h *ExportHandler) BuildDocument(c *gin.Context) {
	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", "text is required")
		return
	}

	document, err := docx.Build(req.Title, req.Text)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = docx.DefaultTitle
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", title+".docx"))
	c.Data(http.StatusOK, docxContentType, document)
}

// Backup handles GET /api/backup
func (h *ExportHandler) Backup(c *gin.Context) {
	if h.backupService == nil {
		respondError(c, http.StatusBadRequest, "BACKUP_NOT_AVAILABLE", "Backup requires the sqlite record store and local file storage")
		return
	}

	var buf bytes.Buffer
	if err := h.backupService.WriteArchive(&buf); err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	filename := fmt.Sprintf("casebank_backup_%s.zip", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}
