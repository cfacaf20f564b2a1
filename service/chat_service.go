package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"casebank-backend/llm"
	"casebank-backend/models"
	"casebank-backend/repository"
	"casebank-backend/storage"

	"go.uber.org/zap"
)

// ChatService answers questions about one judgment's stored PDFs
type ChatService struct {
	judgmentRepo repository.JudgmentRepository
	store        storage.Storage
	provider     llm.Provider
	extractor    TextExtractor
	logger       *zap.Logger
}

// ChatServiceOption is a functional option for ChatService
type ChatServiceOption func(*ChatService)

// ChatWithJudgmentRepository sets the judgment repository
func ChatWithJudgmentRepository(repo repository.JudgmentRepository) ChatServiceOption {
	return func(s *ChatService) {
		s.judgmentRepo = repo
	}
}

// ChatWithStorage sets the blob storage
func ChatWithStorage(store storage.Storage) ChatServiceOption {
	return func(s *ChatService) {
		s.store = store
	}
}

// ChatWithProvider sets the LLM provider
func ChatWithProvider(provider llm.Provider) ChatServiceOption {
	return func(s *ChatService) {
		s.provider = provider
	}
}

// ChatWithExtractor sets the PDF text extractor
func ChatWithExtractor(extractor TextExtractor) ChatServiceOption {
	return func(s *ChatService) {
		s.extractor = extractor
	}
}

// ChatWithLogger sets the logger
func ChatWithLogger(logger *zap.Logger) ChatServiceOption {
	return func(s *ChatService) {
		s.logger = logger
	}
}

// NewChatService creates a new chat service
func NewChatService(opts ...ChatServiceOption) *ChatService {
	s := &ChatService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// AskRequest represents one question about a judgment's documents
type AskRequest struct {
	JudgmentID string
	Question   string
}

// AskResult carries the answer and the judgment it was grounded in
type AskResult struct {
	Judgment *models.Judgment
	Answer   string
}

// Ask re-downloads the judgment's PDFs, extracts their text and asks
// the model the question grounded only in that text. Blobs that fail
// to download are skipped; the answer uses whatever text remains.
func (s *ChatService) Ask(ctx context.Context, req AskRequest) (*AskResult, error) {
	if s.judgmentRepo == nil {
		return nil, errors.New("judgment repository not set")
	}
	if s.store == nil {
		return nil, errors.New("storage not set")
	}
	if s.extractor == nil {
		return nil, errors.New("text extractor not set")
	}
	if s.provider == nil {
		return nil, llm.ErrNotConfigured
	}

	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("%w: question is required", ErrValidation)
	}

	judgment, err := s.judgmentRepo.GetByID(ctx, req.JudgmentID)
	if err != nil {
		return nil, err
	}
	if len(judgment.PDFRefs) == 0 {
		return nil, ErrNoAttachments
	}

	var files [][]byte
	for _, ref := range judgment.PDFRefs {
		content, err := s.store.Download(ctx, ref)
		if err != nil {
			s.logger.Warn("could not download attachment", zap.String("blob_id", ref), zap.Error(err))
			continue
		}
		data, err := io.ReadAll(content)
		content.Close()
		if err != nil {
			s.logger.Warn("could not read attachment", zap.String("blob_id", ref), zap.Error(err))
			continue
		}
		files = append(files, data)
	}

	text := s.extractor.Text(files)
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	answer, err := s.provider.Complete(ctx, buildChatPrompt(req.Question, text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLM, err)
	}

	return &AskResult{Judgment: judgment, Answer: answer}, nil
}
