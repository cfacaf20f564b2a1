package handlers

import (
	"errors"
	"net/http"

	"casebank-backend/llm"
	"casebank-backend/models"
	"casebank-backend/repository"
	"casebank-backend/service"
	"casebank-backend/session"

	"github.com/gin-gonic/gin"
)

// statusLabels maps the stored status enum to its display label. The
// labels are presentation only; the API never accepts them as input.
var statusLabels = map[models.Status]string{
	models.StatusGoodLaw:       "🟢 Good Law",
	models.StatusDistinguished: "🟡 Distinguished / Caution",
	models.StatusOverruled:     "🛑 Overruled / Bad Law",
}

// overruledWarning accompanies every view of an overruled judgment.
// Clients cannot suppress it.
const overruledWarning = "WARNING: This judgment has been marked as Overruled or Bad Law."

// sessionHeader carries the workspace session ID both ways
const sessionHeader = "X-Session-ID"

// judgmentJSON renders one judgment with its display label and, for
// overruled records, the warning
func judgmentJSON(judgment *models.Judgment) gin.H {
	out := gin.H{
		"judgment":     judgment,
		"status_label": statusLabels[judgment.Status],
	}
	if judgment.Status == models.StatusOverruled {
		out["warning"] = overruledWarning
	}
	return out
}

// judgmentViewJSON renders a judgment together with its usage log
func judgmentViewJSON(view *service.JudgmentView) gin.H {
	out := judgmentJSON(view.Judgment)
	out["usages"] = view.Usages
	out["citing_replies"] = view.CitingReplies
	return out
}

// sessionState resolves the request's workspace session and echoes
// the effective ID back so clients can hold on to it
func sessionState(c *gin.Context, manager *session.Manager) *session.State {
	state, id := manager.Get(c.GetHeader(sessionHeader))
	c.Header(sessionHeader, id)
	return state
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps the service sentinels onto the API error
// taxonomy. Handlers check flow-specific sentinels first and fall
// back to this for the rest.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, repository.ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
	case errors.Is(err, llm.ErrNotConfigured):
		respondError(c, http.StatusServiceUnavailable, "LLM_NOT_CONFIGURED", "Generative features are not configured on this server")
	case errors.Is(err, service.ErrParse):
		respondError(c, http.StatusBadGateway, "LLM_FAILED", "AI output formatting failed. Fill manually.")
	case errors.Is(err, service.ErrLLM):
		respondError(c, http.StatusBadGateway, "LLM_FAILED", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
