package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"casebank-backend/llm"
	"casebank-backend/models"
	"casebank-backend/repository"

	"go.uber.org/zap"
)

// ReplyService runs the notice-reply workflow: analyze an incoming
// notice against the catalog, draft a reply, store the final version
type ReplyService struct {
	judgmentRepo repository.JudgmentRepository
	replyRepo    repository.ReplyRepository
	provider     llm.Provider
	extractor    TextExtractor
	ids          IDProvider
	logger       *zap.Logger
}

// ReplyServiceOption is a functional option for ReplyService
type ReplyServiceOption func(*ReplyService)

// ReplyWithJudgmentRepository sets the judgment repository
func ReplyWithJudgmentRepository(repo repository.JudgmentRepository) ReplyServiceOption {
	return func(s *ReplyService) {
		s.judgmentRepo = repo
	}
}

// ReplyWithReplyRepository sets the reply repository
func ReplyWithReplyRepository(repo repository.ReplyRepository) ReplyServiceOption {
	return func(s *ReplyService) {
		s.replyRepo = repo
	}
}

// ReplyWithProvider sets the LLM provider
func ReplyWithProvider(provider llm.Provider) ReplyServiceOption {
	return func(s *ReplyService) {
		s.provider = provider
	}
}

// ReplyWithExtractor sets the PDF text extractor
func ReplyWithExtractor(extractor TextExtractor) ReplyServiceOption {
	return func(s *ReplyService) {
		s.extractor = extractor
	}
}

// ReplyWithIDProvider sets the record ID provider
func ReplyWithIDProvider(ids IDProvider) ReplyServiceOption {
	return func(s *ReplyService) {
		s.ids = ids
	}
}

// ReplyWithLogger sets the logger
func ReplyWithLogger(logger *zap.Logger) ReplyServiceOption {
	return func(s *ReplyService) {
		s.logger = logger
	}
}

// NewReplyService creates a new reply service
func NewReplyService(opts ...ReplyServiceOption) *ReplyService {
	s := &ReplyService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// AnalyzeNoticeRequest carries the uploaded notice PDFs
type AnalyzeNoticeRequest struct {
	Files []UploadFile
}

// AnalyzeNoticeResult carries the notice text and the model's
// suggestions. When the model answered but its JSON would not parse,
// ParseOK is false and both suggestion lists are empty; the notice
// text is still usable for drafting.
type AnalyzeNoticeResult struct {
	NoticeText          string
	SuggestedCases      []*models.Judgment
	ExternalSuggestions []string
	ParseOK             bool
}

// suggestionPayload is the JSON shape the suggestion prompt asks for
type suggestionPayload struct {
	InternalCases       []string `json:"internal_cases"`
	ExternalSuggestions []string `json:"external_suggestions"`
}

// AnalyzeNotice extracts the notice text and asks the model which
// catalog cases defend against it. Only good-law judgments are offered
// to the model; suggestions naming anything else are dropped on match.
func (s *ReplyService) AnalyzeNotice(ctx context.Context, req AnalyzeNoticeRequest) (*AnalyzeNoticeResult, error) {
	if s.extractor == nil {
		return nil, errors.New("text extractor not set")
	}
	if s.judgmentRepo == nil {
		return nil, errors.New("judgment repository not set")
	}
	if s.provider == nil {
		return nil, llm.ErrNotConfigured
	}

	if len(req.Files) == 0 {
		return nil, fmt.Errorf("%w: notice pdf is required", ErrValidation)
	}

	data := make([][]byte, 0, len(req.Files))
	for _, file := range req.Files {
		data = append(data, file.Data)
	}
	text := s.extractor.Text(data)
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	judgments, err := s.judgmentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	goodLaw := FilterGoodLaw(judgments)

	raw, err := s.provider.Complete(ctx, buildSuggestionPrompt(text, buildCaseCatalog(goodLaw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLM, err)
	}

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(llm.StripCodeFences(raw)), &payload); err != nil {
		s.logger.Warn("suggestion response was not valid json", zap.Error(err))
		return &AnalyzeNoticeResult{NoticeText: text}, nil
	}

	byName := make(map[string]*models.Judgment, len(goodLaw))
	for _, judgment := range goodLaw {
		byName[judgment.CaseName] = judgment
	}
	var matched []*models.Judgment
	for _, name := range payload.InternalCases {
		if judgment, ok := byName[name]; ok {
			matched = append(matched, judgment)
		}
	}

	return &AnalyzeNoticeResult{
		NoticeText:          text,
		SuggestedCases:      matched,
		ExternalSuggestions: payload.ExternalSuggestions,
		ParseOK:             true,
	}, nil
}

// DraftReplyRequest names the cases to cite. SelectedCases may include
// any catalog judgment, not only good law; ExternalRefs is free text
// typed by the lawyer.
type DraftReplyRequest struct {
	NoticeText    string
	SelectedCases []string
	ExternalRefs  string
}

// DraftReplyResult carries the model's draft reply
type DraftReplyResult struct {
	Draft string
}

// DraftReply asks the model for a formal reply citing the selected
// precedents. Selected names not found in the catalog are skipped;
// cited cases appear in catalog order, not selection order.
func (s *ReplyService) DraftReply(ctx context.Context, req DraftReplyRequest) (*DraftReplyResult, error) {
	if s.judgmentRepo == nil {
		return nil, errors.New("judgment repository not set")
	}
	if s.provider == nil {
		return nil, llm.ErrNotConfigured
	}

	if strings.TrimSpace(req.NoticeText) == "" {
		return nil, ErrNoticeAnalysisMissing
	}

	judgments, err := s.judgmentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(req.SelectedCases))
	for _, name := range req.SelectedCases {
		selected[name] = true
	}
	var cited strings.Builder
	for _, judgment := range judgments {
		if selected[judgment.CaseName] {
			cited.WriteString(fmt.Sprintf("Case: %s\nRuling: %s\n\n", judgment.CaseName, judgment.DecisionHeld))
		}
	}

	draft, err := s.provider.Complete(ctx, buildDraftPrompt(req.NoticeText, cited.String(), req.ExternalRefs))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLM, err)
	}

	return &DraftReplyResult{Draft: draft}, nil
}

// SaveReplyRequest represents the final reply to record
type SaveReplyRequest struct {
	MatterName    string
	NoticeText    string
	SelectedCases []string
	ExternalRefs  string
	FinalReply    string
}

// SaveReplyResult represents the stored reply
type SaveReplyResult struct {
	Reply *models.NoticeReply
}

// SaveReply records the reply under its matter. The selected case
// names are joined into one comma-separated string; that string is
// what reply-side cross-referencing later matches against.
func (s *ReplyService) SaveReply(ctx context.Context, req SaveReplyRequest) (*SaveReplyResult, error) {
	if s.replyRepo == nil {
		return nil, errors.New("reply repository not set")
	}
	if s.ids == nil {
		return nil, errors.New("id provider not set")
	}

	if strings.TrimSpace(req.MatterName) == "" {
		return nil, fmt.Errorf("%w: matter_name is required", ErrValidation)
	}
	if strings.TrimSpace(req.FinalReply) == "" {
		return nil, fmt.Errorf("%w: final_reply is required", ErrValidation)
	}

	reply := &models.NoticeReply{
		ID:                    s.ids.NewID(),
		MatterName:            req.MatterName,
		NoticeText:            req.NoticeText,
		InternalJudgmentsUsed: strings.Join(req.SelectedCases, ", "),
		ExternalReferences:    req.ExternalRefs,
		FinalReply:            req.FinalReply,
	}

	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}

	return &SaveReplyResult{Reply: reply}, nil
}

// ListRepliesRequest optionally filters replies by exact matter name
type ListRepliesRequest struct {
	Matter string
}

// ListRepliesResult carries the matching replies in insertion order
type ListRepliesResult struct {
	Replies []*models.NoticeReply
}

// ListReplies returns stored replies, all of them or one matter's
func (s *ReplyService) ListReplies(ctx context.Context, req ListRepliesRequest) (*ListRepliesResult, error) {
	if s.replyRepo == nil {
		return nil, errors.New("reply repository not set")
	}

	replies, err := s.replyRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if req.Matter == "" {
		return &ListRepliesResult{Replies: replies}, nil
	}

	matched := make([]*models.NoticeReply, 0)
	for _, reply := range replies {
		if reply.MatterName == req.Matter {
			matched = append(matched, reply)
		}
	}
	return &ListRepliesResult{Replies: matched}, nil
}

// GetReplyRequest represents a request for one stored reply
type GetReplyRequest struct {
	ID string
}

// GetReplyResult represents the result of fetching one reply
type GetReplyResult struct {
	Reply *models.NoticeReply
}

// GetReply retrieves one stored reply
func (s *ReplyService) GetReply(ctx context.Context, req GetReplyRequest) (*GetReplyResult, error) {
	if s.replyRepo == nil {
		return nil, errors.New("reply repository not set")
	}

	reply, err := s.replyRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &GetReplyResult{Reply: reply}, nil
}
