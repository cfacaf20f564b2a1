package handlers

import (
	"errors"
	"net/http"

	"casebank-backend/service"
	"casebank-backend/session"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles HTTP requests for the judgment chat
type ChatHandler struct {
	chatService *service.ChatService
	sessions    *session.Manager
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, sessions *session.Manager) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		sessions:    sessions,
	}
}

// AskRequest represents the request body for one chat question
type AskRequest struct {
	JudgmentID string `json:"judgment_id"`
	Question   string `json:"question"`
}

// Ask handles POST /api/chat
func (h *ChatHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.chatService.Ask(c.Request.Context(), service.AskRequest{
		JudgmentID: req.JudgmentID,
		Question:   req.Question,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoAttachments):
			respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		case errors.Is(err, service.ErrNoText):
			respondError(c, http.StatusBadGateway, "EXTRACTION_FAILED", "Could not extract text from the stored files")
		default:
			respondServiceError(c, err)
		}
		return
	}

	state := sessionState(c, h.sessions)
	transcript := state.AppendChat(session.ChatEntry{
		Question: req.Question,
		Answer:   result.Answer,
	})

	respondData(c, http.StatusOK, gin.H{
		"answer":     result.Answer,
		"judgment":   judgmentJSON(result.Judgment),
		"transcript": transcript,
	})
}

// History handles GET /api/chat
func (h *ChatHandler) History(c *gin.Context) {
	state := sessionState(c, h.sessions)
	respondData(c, http.StatusOK, gin.H{"transcript": state.Transcript()})
}

// Clear handles DELETE /api/chat
func (h *ChatHandler) Clear(c *gin.Context) {
	state := sessionState(c, h.sessions)
	state.ClearChat()
	respondData(c, http.StatusOK, gin.H{"cleared": true})
}
