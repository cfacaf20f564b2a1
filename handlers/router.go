package handlers

import (
	"errors"
	"net/http"
	"time"

	"casebank-backend/service"
	"casebank-backend/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errMissingCatalogService = errors.New("catalog service dependency required")
	errMissingIntakeService  = errors.New("intake service dependency required")
	errMissingReplyService   = errors.New("reply service dependency required")
	errMissingChatService    = errors.New("chat service dependency required")
	errMissingSessionManager = errors.New("session manager dependency required")
)

// Dependencies carries everything the HTTP surface needs. BackupService
// may be nil; the backup endpoint then reports it is unavailable.
type Dependencies struct {
	CatalogService *service.CatalogService
	IntakeService  *service.IntakeService
	ReplyService   *service.ReplyService
	ChatService    *service.ChatService
	BackupService  *service.BackupService
	Sessions       *session.Manager
	Logger         *zap.Logger
}

// NewRouter wires all handlers onto a gin engine.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.CatalogService == nil {
		return nil, errMissingCatalogService
	}
	if deps.IntakeService == nil {
		return nil, errMissingIntakeService
	}
	if deps.ReplyService == nil {
		return nil, errMissingReplyService
	}
	if deps.ChatService == nil {
		return nil, errMissingChatService
	}
	if deps.Sessions == nil {
		return nil, errMissingSessionManager
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	judgmentHandler := NewJudgmentHandler(deps.CatalogService, deps.IntakeService, deps.Sessions, logger)
	matterHandler := NewMatterHandler(deps.CatalogService)
	replyHandler := NewReplyHandler(deps.ReplyService, deps.Sessions)
	chatHandler := NewChatHandler(deps.ChatService, deps.Sessions)
	exportHandler := NewExportHandler(deps.BackupService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Authorization", "Content-Type", sessionHeader},
		ExposeHeaders: []string{sessionHeader},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "casebank-backend",
		})
	})

	api := r.Group("/api")
	{
		api.GET("/dashboard", judgmentHandler.Dashboard)

		// Judgment catalog
		api.GET("/judgments", judgmentHandler.ListJudgments)
		api.POST("/judgments", judgmentHandler.CreateJudgment)
		api.POST("/judgments/autofill", judgmentHandler.Autofill)
		api.GET("/judgments/:id", judgmentHandler.GetJudgment)
		api.PUT("/judgments/:id", judgmentHandler.UpdateJudgment)
		api.GET("/judgments/:id/files/:fileID", judgmentHandler.DownloadFile)
		api.GET("/session/form", judgmentHandler.SessionForm)

		// Matter cross-referencing
		api.POST("/links", matterHandler.CreateLink)
		api.GET("/matters", matterHandler.ListMatters)
		api.GET("/matters/records", matterHandler.MatterRecords)

		// Notice replies
		api.POST("/replies/analyze", replyHandler.Analyze)
		api.POST("/replies/draft", replyHandler.Draft)
		api.POST("/replies", replyHandler.Save)
		api.GET("/replies", replyHandler.List)
		api.GET("/replies/:id/document", replyHandler.Document)

		// Chat with stored judgment files
		api.POST("/chat", chatHandler.Ask)
		api.GET("/chat", chatHandler.History)
		api.DELETE("/chat", chatHandler.Clear)

		// Exports
		api.POST("/documents", exportHandler.BuildDocument)
		api.GET("/backup", exportHandler.Backup)
	}

	return r, nil
}
