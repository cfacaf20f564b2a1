package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"casebank-backend/repository"
	"casebank-backend/service"
	"casebank-backend/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JudgmentHandler handles HTTP requests for the judgment catalog
type JudgmentHandler struct {
	catalogService *service.CatalogService
	intakeService  *service.IntakeService
	sessions       *session.Manager
	logger         *zap.Logger
}

// NewJudgmentHandler creates a new judgment handler
func NewJudgmentHandler(catalogService *service.CatalogService, intakeService *service.IntakeService, sessions *session.Manager, logger *zap.Logger) *JudgmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JudgmentHandler{
		catalogService: catalogService,
		intakeService:  intakeService,
		sessions:       sessions,
		logger:         logger,
	}
}

// readUploads drains multipart file parts into memory. Attachments for
// this workload are judgment PDFs, small enough to buffer whole.
func readUploads(headers []*multipart.FileHeader) ([]service.UploadFile, error) {
	files := make([]service.UploadFile, 0, len(headers))
	for _, header := range headers {
		part, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("could not open %s: %w", header.Filename, err)
		}
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, fmt.Errorf("could not read %s: %w", header.Filename, err)
		}
		files = append(files, service.UploadFile{Filename: header.Filename, Data: data})
	}
	return files, nil
}

// ListJudgments handles GET /api/judgments
func (h *JudgmentHandler) ListJudgments(c *gin.Context) {
	result, err := h.catalogService.SearchJudgments(c.Request.Context(), service.SearchJudgmentsRequest{
		Query: c.Query("q"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]gin.H, 0, len(result.Judgments))
	for _, view := range result.Judgments {
		views = append(views, judgmentViewJSON(view))
	}

	respondData(c, http.StatusOK, gin.H{
		"count":     len(views),
		"judgments": views,
	})
}

// CreateJudgment handles POST /api/judgments
func (h *JudgmentHandler) CreateJudgment(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Expected a multipart form")
		return
	}

	files, err := readUploads(form.File["files"])
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.catalogService.CreateJudgment(c.Request.Context(), service.CreateJudgmentRequest{
		CaseName:      c.PostForm("case_name"),
		ActName:       c.PostForm("act_name"),
		SectionNumber: c.PostForm("section_number"),
		Authority:     c.PostForm("authority"),
		BriefFacts:    c.PostForm("brief_facts"),
		DecisionHeld:  c.PostForm("decision_held"),
		AINotes:       c.PostForm("ai_notes"),
		Status:        c.PostForm("status"),
		Files:         files,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// The intake form buffer served its purpose once the record is
	// stored.
	sessionState(c, h.sessions).ClearForm()

	respondData(c, http.StatusCreated, judgmentJSON(result.Judgment))
}

// GetJudgment handles GET /api/judgments/:id
func (h *JudgmentHandler) GetJudgment(c *gin.Context) {
	result, err := h.catalogService.GetJudgment(c.Request.Context(), service.GetJudgmentRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, judgmentViewJSON(result.Judgment))
}

// UpdateJudgmentRequest represents the request body for editing a
// judgment. Every field is a full overwrite; pdf_file_ids is only
// replaced when present.
type UpdateJudgmentRequest struct {
	CaseName      string    `json:"case_name"`
	ActName       string    `json:"act_name"`
	SectionNumber string    `json:"section_number"`
	Authority     string    `json:"authority"`
	BriefFacts    string    `json:"brief_facts"`
	DecisionHeld  string    `json:"decision_held"`
	AINotes       string    `json:"ai_notes"`
	Status        string    `json:"status"`
	PDFFileIDs    *[]string `json:"pdf_file_ids"`
}

// UpdateJudgment handles PUT /api/judgments/:id
func (h *JudgmentHandler) UpdateJudgment(c *gin.Context) {
	var req UpdateJudgmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.catalogService.UpdateJudgment(c.Request.Context(), service.UpdateJudgmentRequest{
		ID:            c.Param("id"),
		CaseName:      req.CaseName,
		ActName:       req.ActName,
		SectionNumber: req.SectionNumber,
		Authority:     req.Authority,
		BriefFacts:    req.BriefFacts,
		DecisionHeld:  req.DecisionHeld,
		AINotes:       req.AINotes,
		Status:        req.Status,
		PDFRefs:       req.PDFFileIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, judgmentJSON(result.Judgment))
}

// DownloadFile handles GET /api/judgments/:id/files/:fileID
func (h *JudgmentHandler) DownloadFile(c *gin.Context) {
	result, err := h.catalogService.DownloadAttachment(c.Request.Context(), service.DownloadAttachmentRequest{
		JudgmentID: c.Param("id"),
		BlobID:     c.Param("fileID"),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "Attachment not found")
			return
		}
		respondError(c, http.StatusBadGateway, "STORAGE_FAILED", err.Error())
		return
	}
	defer result.Content.Close()

	contentType := "application/octet-stream"
	if strings.HasSuffix(strings.ToLower(result.Filename), ".pdf") {
		contentType = "application/pdf"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.DataFromReader(http.StatusOK, -1, contentType, result.Content, nil)
}

// Autofill handles POST /api/judgments/autofill
func (h *JudgmentHandler) Autofill(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Expected a multipart form")
		return
	}

	files, err := readUploads(form.File["files"])
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.intakeService.Autofill(c.Request.Context(), service.AutofillRequest{Files: files})
	if err != nil {
		if errors.Is(err, service.ErrNoText) {
			respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
			return
		}
		respondServiceError(c, err)
		return
	}

	// A failed run leaves the buffer alone; only a successful
	// extraction overwrites it.
	state := sessionState(c, h.sessions)
	state.SetForm(session.FormBuffer{
		CaseName:      result.CaseName,
		ActName:       result.ActName,
		SectionNumber: result.SectionNumber,
		Authority:     result.Authority,
		BriefFacts:    result.BriefFacts,
		DecisionHeld:  result.DecisionHeld,
		AINotes:       result.AINotes,
	})

	respondData(c, http.StatusOK, gin.H{"form": state.Form()})
}

// SessionForm handles GET /api/session/form
func (h *JudgmentHandler) SessionForm(c *gin.Context) {
	state := sessionState(c, h.sessions)
	respondData(c, http.StatusOK, gin.H{"form": state.Form()})
}

// Dashboard handles GET /api/dashboard
func (h *JudgmentHandler) Dashboard(c *gin.Context) {
	result, err := h.catalogService.Dashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"judgment_count": result.JudgmentCount,
		"usage_count":    result.UsageCount,
		"reply_count":    result.ReplyCount,
		"by_act":         result.ByAct,
		"by_authority":   result.ByAuthority,
		"by_status":      result.ByStatus,
	})
}
