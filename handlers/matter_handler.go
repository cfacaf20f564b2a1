package handlers

import (
	"net/http"

	"casebank-backend/service"

	"github.com/gin-gonic/gin"
)

// MatterHandler handles HTTP requests for usage links and matters
type MatterHandler struct {
	catalogService *service.CatalogService
}

// NewMatterHandler creates a new matter handler
func NewMatterHandler(catalogService *service.CatalogService) *MatterHandler {
	return &MatterHandler{catalogService: catalogService}
}

// CreateLinkRequest represents the request body for linking a
// judgment to an internal matter
type CreateLinkRequest struct {
	JudgmentID         string `json:"judgment_id"`
	InternalMatterName string `json:"internal_matter_name"`
	InternalNotice     string `json:"internal_notice"`
	UsageNotes         string `json:"usage_notes"`
	AIBrief            string `json:"ai_brief"`
}

// CreateLink handles POST /api/links
func (h *MatterHandler) CreateLink(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.catalogService.CreateLink(c.Request.Context(), service.CreateLinkRequest{
		JudgmentID:         req.JudgmentID,
		InternalMatterName: req.InternalMatterName,
		InternalNotice:     req.InternalNotice,
		UsageNotes:         req.UsageNotes,
		AIBrief:            req.AIBrief,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	data := gin.H{"usage": result.Usage}
	if result.Target != nil {
		data["target"] = judgmentJSON(result.Target)
	}

	respondData(c, http.StatusCreated, data)
}

// ListMatters handles GET /api/matters
func (h *MatterHandler) ListMatters(c *gin.Context) {
	matters, err := h.catalogService.ListMatters(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"matters": matters})
}

// MatterRecords handles GET /api/matters/records
func (h *MatterHandler) MatterRecords(c *gin.Context) {
	result, err := h.catalogService.MatterRecords(c.Request.Context(), service.MatterRecordsRequest{
		Name: c.Query("name"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"usages":  result.Usages,
		"replies": result.Replies,
	})
}
