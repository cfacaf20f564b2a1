package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"casebank-backend/llm"

	"go.uber.org/zap"
)

// TextExtractor turns uploaded PDF bytes into plain text. Files that
// cannot be parsed contribute nothing.
type TextExtractor interface {
	Text(files [][]byte) string
}

// IntakeService prefills judgment form fields from uploaded PDFs
type IntakeService struct {
	provider  llm.Provider
	extractor TextExtractor
	logger    *zap.Logger
}

// IntakeServiceOption is a functional option for IntakeService
type IntakeServiceOption func(*IntakeService)

// IntakeWithProvider sets the LLM provider
func IntakeWithProvider(provider llm.Provider) IntakeServiceOption {
	return func(s *IntakeService) {
		s.provider = provider
	}
}

// IntakeWithExtractor sets the PDF text extractor
func IntakeWithExtractor(extractor TextExtractor) IntakeServiceOption {
	return func(s *IntakeService) {
		s.extractor = extractor
	}
}

// IntakeWithLogger sets the logger
func IntakeWithLogger(logger *zap.Logger) IntakeServiceOption {
	return func(s *IntakeService) {
		s.logger = logger
	}
}

// NewIntakeService creates a new intake service
func NewIntakeService(opts ...IntakeServiceOption) *IntakeService {
	s := &IntakeService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// AutofillRequest represents a request to extract metadata from PDFs
type AutofillRequest struct {
	Files []UploadFile
}

// AutofillResult carries the extracted form fields. Fields the model
// omitted come back empty, never missing.
type AutofillResult struct {
	CaseName      string `json:"case_name"`
	ActName       string `json:"act_name"`
	SectionNumber string `json:"section_number"`
	Authority     string `json:"authority"`
	BriefFacts    string `json:"brief_facts"`
	DecisionHeld  string `json:"decision_held"`
	AINotes       string `json:"ai_notes"`
}

// Autofill extracts text from the uploaded PDFs and asks the model for
// the seven judgment fields as JSON
func (s *IntakeService) Autofill(ctx context.Context, req AutofillRequest) (*AutofillResult, error) {
	if s.extractor == nil {
		return nil, errors.New("text extractor not set")
	}
	if s.provider == nil {
		return nil, llm.ErrNotConfigured
	}

	if len(req.Files) == 0 {
		return nil, fmt.Errorf("%w: at least one pdf is required", ErrValidation)
	}

	data := make([][]byte, 0, len(req.Files))
	for _, file := range req.Files {
		data = append(data, file.Data)
	}
	text := s.extractor.Text(data)
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	raw, err := s.provider.Complete(ctx, buildMetadataPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLM, err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(llm.StripCodeFences(raw)), &fields); err != nil {
		s.logger.Warn("metadata response was not valid json", zap.Error(err))
		return nil, fmt.Errorf("%w: metadata response was not valid json", ErrParse)
	}

	return &AutofillResult{
		CaseName:      stringField(fields, "case_name"),
		ActName:       stringField(fields, "act_name"),
		SectionNumber: stringField(fields, "section_number"),
		Authority:     stringField(fields, "authority"),
		BriefFacts:    stringField(fields, "brief_facts"),
		DecisionHeld:  stringField(fields, "decision_held"),
		AINotes:       stringField(fields, "ai_notes"),
	}, nil
}

// stringField reads a string value out of decoded JSON, treating
// missing keys and non-string values as empty
func stringField(fields map[string]interface{}, key string) string {
	if value, ok := fields[key].(string); ok {
		return value
	}
	return ""
}
