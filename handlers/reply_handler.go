package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"casebank-backend/docx"
	"casebank-backend/service"
	"casebank-backend/session"

	"github.com/gin-gonic/gin"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ReplyHandler handles HTTP requests for the notice-reply workflow
type ReplyHandler struct {
	replyService *service.ReplyService
	sessions     *session.Manager
}

// NewReplyHandler creates a new reply handler
func NewReplyHandler(replyService *service.ReplyService, sessions *session.Manager) *ReplyHandler {
	return &ReplyHandler{
		replyService: replyService,
		sessions:     sessions,
	}
}

// Analyze handles POST /api/replies/analyze
func (h *ReplyHandler) Analyze(c *gin.Context) {
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

	result, err := h.replyService.AnalyzeNotice(c.Request.Context(), service.AnalyzeNoticeRequest{Files: files})
	if err != nil {
		if errors.Is(err, service.ErrNoText) {
			respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
			return
		}
		respondServiceError(c, err)
		return
	}

	// A new analysis starts a fresh workspace; a failed one (above)
	// leaves the previous workspace alone.
	names := make([]string, 0, len(result.SuggestedCases))
	suggested := make([]gin.H, 0, len(result.SuggestedCases))
	for _, judgment := range result.SuggestedCases {
		names = append(names, judgment.CaseName)
		suggested = append(suggested, judgmentJSON(judgment))
	}
	state := sessionState(c, h.sessions)
	state.SetNotice(session.NoticeWorkspace{
		NoticeText:          result.NoticeText,
		SuggestedCases:      names,
		ExternalSuggestions: result.ExternalSuggestions,
	})

	respondData(c, http.StatusOK, gin.H{
		"parse_ok":             result.ParseOK,
		"notice_text":          result.NoticeText,
		"suggested_cases":      suggested,
		"external_suggestions": result.ExternalSuggestions,
	})
}

// DraftRequest represents the request body for drafting a reply
type DraftRequest struct {
	SelectedCases []string `json:"selected_cases"`
	ExternalRefs  string   `json:"external_refs"`
}

// Draft handles POST /api/replies/draft
func (h *ReplyHandler) Draft(c *gin.Context) {
	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	state := sessionState(c, h.sessions)
	workspace := state.Notice()

	result, err := h.replyService.DraftReply(c.Request.Context(), service.DraftReplyRequest{
		NoticeText:    workspace.NoticeText,
		SelectedCases: req.SelectedCases,
		ExternalRefs:  req.ExternalRefs,
	})
	if err != nil {
		if errors.Is(err, service.ErrNoticeAnalysisMissing) {
			respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", "Please upload and analyze a notice first")
			return
		}
		respondServiceError(c, err)
		return
	}

	workspace.Draft = result.Draft
	state.SetNotice(workspace)

	respondData(c, http.StatusOK, gin.H{"draft": result.Draft})
}

// SaveReplyRequest represents the request body for saving a final
// reply under a matter
type SaveReplyRequest struct {
	MatterName    string   `json:"matter_name"`
	FinalReply    string   `json:"final_reply"`
	SelectedCases []string `json:"selected_cases"`
	ExternalRefs  string   `json:"external_refs"`
}

// Save handles POST /api/replies
func (h *ReplyHandler) Save(c *gin.Context) {
	var req SaveReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	state := sessionState(c, h.sessions)
	workspace := state.Notice()

	result, err := h.replyService.SaveReply(c.Request.Context(), service.SaveReplyRequest{
		MatterName:    req.MatterName,
		NoticeText:    workspace.NoticeText,
		SelectedCases: req.SelectedCases,
		ExternalRefs:  req.ExternalRefs,
		FinalReply:    req.FinalReply,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// The workspace deliberately survives the save so the user can
	// keep refining or export the draft again.
	respondData(c, http.StatusCreated, gin.H{"reply": result.Reply})
}

// List handles GET /api/replies
func (h *ReplyHandler) List(c *gin.Context) {
	result, err := h.replyService.ListReplies(c.Request.Context(), service.ListRepliesRequest{
		Matter: c.Query("matter"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"replies": result.Replies})
}

// Document handles GET /api/replies/:id/document
func (h *ReplyHandler) Document(c *gin.Context) {
	result, err := h.replyService.GetReply(c.Request.Context(), service.GetReplyRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	reply := result.Reply
	document, err := docx.Build(fmt.Sprintf("Reply - %s", reply.MatterName), reply.FinalReply)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("Reply_%s.docx", reply.MatterName)))
	c.Data(http.StatusOK, docxContentType, document)
}
