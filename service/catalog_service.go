package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"casebank-backend/models"
	"casebank-backend/repository"
	"casebank-backend/storage"

	"go.uber.org/zap"
)

// UploadFile is one uploaded attachment held in memory
type UploadFile struct {
	Filename string
	Data     []byte
}

// CatalogService handles the judgment knowledge bank: records and
// their attachments, usage links, matter views and the dashboard
type CatalogService struct {
	judgmentRepo repository.JudgmentRepository
	usageRepo    repository.UsageRepository
	replyRepo    repository.ReplyRepository
	store        storage.Storage
	ids          IDProvider
	logger       *zap.Logger
}

// CatalogServiceOption is a functional option for CatalogService
type CatalogServiceOption func(*CatalogService)

// CatalogWithJudgmentRepository sets the judgment repository
func CatalogWithJudgmentRepository(repo repository.JudgmentRepository) CatalogServiceOption {
	return func(s *CatalogService) {
		s.judgmentRepo = repo
	}
}

// CatalogWithUsageRepository sets the usage repository
func CatalogWithUsageRepository(repo repository.UsageRepository) CatalogServiceOption {
	return func(s *CatalogService) {
		s.usageRepo = repo
	}
}

// CatalogWithReplyRepository sets the reply repository
func CatalogWithReplyRepository(repo repository.ReplyRepository) CatalogServiceOption {
	return func(s *CatalogService) {
		s.replyRepo = repo
	}
}

// CatalogWithStorage sets the blob storage
func CatalogWithStorage(store storage.Storage) CatalogServiceOption {
	return func(s *CatalogService) {
		s.store = store
	}
}

// CatalogWithIDProvider sets the record ID provider
func CatalogWithIDProvider(ids IDProvider) CatalogServiceOption {
	return func(s *CatalogService) {
		s.ids = ids
	}
}

// CatalogWithLogger sets the logger
func CatalogWithLogger(logger *zap.Logger) CatalogServiceOption {
	return func(s *CatalogService) {
		s.logger = logger
	}
}

// NewCatalogService creates a new catalog service
func NewCatalogService(opts ...CatalogServiceOption) *CatalogService {
	s := &CatalogService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// validateJudgmentFields enforces the record invariants: a judgment
// always carries a case name, brief facts and a decision. Act,
// section and authority are optional.
func validateJudgmentFields(caseName, briefFacts, decisionHeld string) error {
	if strings.TrimSpace(caseName) == "" {
		return fmt.Errorf("%w: case_name is required", ErrValidation)
	}
	if strings.TrimSpace(briefFacts) == "" {
		return fmt.Errorf("%w: brief_facts is required", ErrValidation)
	}
	if strings.TrimSpace(decisionHeld) == "" {
		return fmt.Errorf("%w: decision_held is required", ErrValidation)
	}
	return nil
}

// CreateJudgmentRequest represents a request to store a new judgment
type CreateJudgmentRequest struct {
	CaseName      string
	ActName       string
	SectionNumber string
	Authority     string
	BriefFacts    string
	DecisionHeld  string
	AINotes       string
	Status        string
	Files         []UploadFile
}

// CreateJudgmentResult represents the result of storing a judgment
type CreateJudgmentResult struct {
	Judgment *models.Judgment
}

// CreateJudgment validates the record, uploads its attachments and
// appends it to the store. Validation failures happen before any
// upload so a rejected record leaves no blobs behind. A single failed
// upload is skipped; the judgment keeps the refs that succeeded.
func (s *CatalogService) CreateJudgment(ctx context.Context, req CreateJudgmentRequest) (*CreateJudgmentResult, error) {
	if s.judgmentRepo == nil {
		return nil, errors.New("judgment repository not set")
	}
	if s.ids == nil {
		return nil, errors.New("id provider not set")
	}

	if err := validateJudgmentFields(req.CaseName, req.BriefFacts, req.DecisionHeld); err != nil {
		return nil, err
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if len(req.Files) > 0 && s.store == nil {
		return nil, errors.New("storage not set")
	}

	id := s.ids.NewID()

	var refs models.PDFRefs
	for _, file := range req.Files {
		blobID, err := s.store.Upload(ctx, id, file.Filename, bytes.NewReader(file.Data))
		if err != nil {
			s.logger.Warn("attachment upload failed",
				zap.String("judgment_id", id),
				zap.String("filename", file.Filename),
				zap.Error(err),
			)
			continue
		}
		refs = append(refs, blobID)
	}

	judgment := &models.Judgment{
		ID:            id,
		CaseName:      req.CaseName,
		ActName:       req.ActName,
		SectionNumber: req.SectionNumber,
		Authority:     req.Authority,
		BriefFacts:    req.BriefFacts,
		DecisionHeld:  req.DecisionHeld,
		PDFRefs:       refs,
		AINotes:       req.AINotes,
		Status:        status,
	}

	if err := s.judgmentRepo.Create(ctx, judgment); err != nil {
		return nil, err
	}

	return &CreateJudgmentResult{Judgment: judgment}, nil
}

// UpdateJudgmentRequest represents a full-overwrite edit of a judgment.
// Every field is resupplied; PDFRefs is only replaced when non-nil.
type UpdateJudgmentRequest struct {
	ID            string
	CaseName      string
	ActName       string
	SectionNumber string
	Authority     string
	BriefFacts    string
	DecisionHeld  string
	AINotes       string
	Status        string
	PDFRefs       *[]string
}

// UpdateJudgmentResult represents the result of editing a judgment
type UpdateJudgmentResult struct {
	Judgment *models.Judgment
}

// UpdateJudgment overwrites a stored judgment. There is no concurrency
// control: the last write wins, whole-record.
func (s *CatalogService) UpdateJudgment(ctx context.Context, req UpdateJudgmentRequest) (*UpdateJudgmentResult, error) {
	if s.judgmentRepo == nil {
		return nil, errors.New("judgment repository not set")
	}

	existing, err := s.judgmentRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if err := validateJudgmentFields(req.CaseName, req.BriefFacts, req.DecisionHeld); err != nil {
		return nil, err
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	judgment := &models.Judgment{
		ID:            req.ID,
		CaseName:      req.CaseName,
		ActName:       req.ActName,
		SectionNumber: req.SectionNumber,
		Authority:     req.Authority,
		BriefFacts:    req.BriefFacts,
		DecisionHeld:  req.DecisionHeld,
		PDFRefs:       existing.PDFRefs,
		AINotes:       req.AINotes,
		Status:        status,
		CreatedAt:     existing.CreatedAt,
	}
	if req.PDFRefs != nil {
		judgment.PDFRefs = models.PDFRefs(*req.PDFRefs)
	}

	if err := s.judgmentRepo.Update(ctx, judgment); err != nil {
		return nil, err
	}

	return &UpdateJudgmentResult{Judgment: judgment}, nil
}

// JudgmentView couples a judgment with its cross-reference records:
// the matters that relied on it and the replies citing it
type JudgmentView struct {
	Judgment      *models.Judgment
	Usages        []*models.InternalUsage
	CitingReplies []*models.NoticeReply
}

// SearchJudgmentsRequest represents a catalog search
type SearchJudgmentsRequest struct {
	Query string
}

// SearchJudgmentsResult represents the result of a catalog search
type SearchJudgmentsResult struct {
	Judgments []*JudgmentView
}

// SearchJudgments re-reads the full collections and filters in memory.
// The store sees no query; at a few thousand records that is the whole
// point of the design.
func (s *CatalogService) SearchJudgments(ctx context.Context, req SearchJudgmentsRequest) (*SearchJudgmentsResult, error) {
	judgments, usages, replies, err := s.loadCollections(ctx)
	if err != nil {
		return nil, err
	}

	matched := FilterJudgments(judgments, req.Query)
	views := make([]*JudgmentView, 0, len(matched))
	for _, judgment := range matched {
		views = append(views, &JudgmentView{
			Judgment:      judgment,
			Usages:        UsagesForJudgment(usages, judgment.ID),
			CitingReplies: RepliesCiting(replies, judgment.CaseName),
		})
	}

	return &SearchJudgmentsResult{Judgments: views}, nil
}

// GetJudgmentRequest represents a request for one judgment
type GetJudgmentRequest struct {
	ID string
}

// GetJudgmentResult represents the result of fetching one judgment
type GetJudgmentResult struct {
	Judgment *JudgmentView
}

// GetJudgment retrieves one judgment with its cross-reference view
func (s *CatalogService) GetJudgment(ctx context.Context, req GetJudgmentRequest) (*GetJudgmentResult, error) {
	if s.judgmentRepo == nil {
		return nil, errors.New("judgment repository not set")
	}

	judgment, err := s.judgmentRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	usages, err := s.listUsages(ctx)
	if err != nil {
		return nil, err
	}
	replies, err := s.listReplies(ctx)
	if err != nil {
		return nil, err
	}

	return &GetJudgmentResult{Judgment: &JudgmentView{
		Judgment:      judgment,
		Usages:        UsagesForJudgment(usages, judgment.ID),
		CitingReplies: RepliesCiting(replies, judgment.CaseName),
	}}, nil
}

// DownloadAttachmentRequest represents a request for one stored blob
type DownloadAttachmentRequest struct {
	JudgmentID string
	BlobID     string
}

// DownloadAttachmentResult carries the blob stream and its display name
type DownloadAttachmentResult struct {
	Content  io.ReadCloser
	Filename string
}

// DownloadAttachment streams one attachment. The blob must be listed
// on the judgment record; anything else is treated as not found.
func (s *CatalogService) DownloadAttachment(ctx context.Context, req DownloadAttachmentRequest) (*DownloadAttachmentResult, error) {
	if s.judgmentRepo == nil {
		return nil, errors.New("judgment repository not set")
	}
	if s.store == nil {
		return nil, errors.New("storage not set")
	}

	judgment, err := s.judgmentRepo.GetByID(ctx, req.JudgmentID)
	if err != nil {
		return nil, err
	}

	listed := false
	for _, ref := range judgment.PDFRefs {
		if ref == req.BlobID {
			listed = true
			break
		}
	}
	if !listed {
		return nil, repository.ErrNotFound
	}

	content, err := s.store.Download(ctx, req.BlobID)
	if err != nil {
		return nil, err
	}

	return &DownloadAttachmentResult{
		Content:  content,
		Filename: strings.TrimPrefix(req.BlobID, judgment.ID+"_"),
	}, nil
}

// CreateLinkRequest represents a request to link a judgment to a matter
type CreateLinkRequest struct {
	JudgmentID         string
	InternalMatterName string
	InternalNotice     string
	UsageNotes         string
	AIBrief            string
}

// CreateLinkResult carries the stored link and, when the target
// exists, the judgment it points at so callers can warn on overruled
// targets. Target is nil for dangling references.
type CreateLinkResult struct {
	Usage  *models.InternalUsage
	Target *models.Judgment
}

// CreateLink stores a usage link. The target judgment's existence is
// not a precondition; dangling references are tolerated.
func (s *CatalogService) CreateLink(ctx context.Context, req CreateLinkRequest) (*CreateLinkResult, error) {
	if s.usageRepo == nil {
		return nil, errors.New("usage repository not set")
	}
	if s.ids == nil {
		return nil, errors.New("id provider not set")
	}

	if strings.TrimSpace(req.JudgmentID) == "" {
		return nil, fmt.Errorf("%w: judgment_id is required", ErrValidation)
	}
	if strings.TrimSpace(req.InternalMatterName) == "" {
		return nil, fmt.Errorf("%w: internal_matter_name is required", ErrValidation)
	}

	usage := &models.InternalUsage{
		ID:                 s.ids.NewID(),
		JudgmentID:         req.JudgmentID,
		InternalMatterName: req.InternalMatterName,
		InternalNotice:     req.InternalNotice,
		UsageNotes:         req.UsageNotes,
		AIBrief:            req.AIBrief,
	}

	if err := s.usageRepo.Create(ctx, usage); err != nil {
		return nil, err
	}

	var target *models.Judgment
	if s.judgmentRepo != nil {
		loaded, err := s.judgmentRepo.GetByID(ctx, req.JudgmentID)
		switch {
		case err == nil:
			target = loaded
		case !errors.Is(err, repository.ErrNotFound):
			s.logger.Warn("could not load link target", zap.String("judgment_id", req.JudgmentID), zap.Error(err))
		}
	}

	return &CreateLinkResult{Usage: usage, Target: target}, nil
}

// ListMatters returns the distinct matter names across usage links and
// replies, sorted.
func (s *CatalogService) ListMatters(ctx context.Context) ([]string, error) {
	usages, err := s.listUsages(ctx)
	if err != nil {
		return nil, err
	}
	replies, err := s.listReplies(ctx)
	if err != nil {
		return nil, err
	}
	return DistinctMatters(usages, replies), nil
}

// MatterRecordsRequest represents a request for one matter's records
type MatterRecordsRequest struct {
	Name string
}

// MatterRecordsResult carries the usage links and replies of a matter
type MatterRecordsResult struct {
	Usages  []*models.InternalUsage
	Replies []*models.NoticeReply
}

// MatterRecords returns everything filed under an exact matter name
func (s *CatalogService) MatterRecords(ctx context.Context, req MatterRecordsRequest) (*MatterRecordsResult, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: matter name is required", ErrValidation)
	}

	usages, err := s.listUsages(ctx)
	if err != nil {
		return nil, err
	}
	replies, err := s.listReplies(ctx)
	if err != nil {
		return nil, err
	}

	matchedUsages, matchedReplies := RecordsForMatter(usages, replies, req.Name)
	return &MatterRecordsResult{Usages: matchedUsages, Replies: matchedReplies}, nil
}

// DashboardResult summarizes the knowledge bank for the overview page
type DashboardResult struct {
	JudgmentCount int
	UsageCount    int
	ReplyCount    int
	ByAct         map[string]int
	ByAuthority   map[string]int
	ByStatus      map[string]int
}

// Dashboard computes record counts and breakdowns over the full
// collections. Empty act and authority values are skipped.
func (s *CatalogService) Dashboard(ctx context.Context) (*DashboardResult, error) {
	judgments, usages, replies, err := s.loadCollections(ctx)
	if err != nil {
		return nil, err
	}

	result := &DashboardResult{
		JudgmentCount: len(judgments),
		UsageCount:    len(usages),
		ReplyCount:    len(replies),
		ByAct:         make(map[string]int),
		ByAuthority:   make(map[string]int),
		ByStatus:      make(map[string]int),
	}

	for _, judgment := range judgments {
		if judgment.ActName != "" {
			result.ByAct[judgment.ActName]++
		}
		if judgment.Authority != "" {
			result.ByAuthority[judgment.Authority]++
		}
		result.ByStatus[string(judgment.Status)]++
	}

	return result, nil
}

func (s *CatalogService) loadCollections(ctx context.Context) ([]*models.Judgment, []*models.InternalUsage, []*models.NoticeReply, error) {
	if s.judgmentRepo == nil {
		return nil, nil, nil, errors.New("judgment repository not set")
	}

	judgments, err := s.judgmentRepo.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	usages, err := s.listUsages(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	replies, err := s.listReplies(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return judgments, usages, replies, nil
}

func (s *CatalogService) listUsages(ctx context.Context) ([]*models.InternalUsage, error) {
	if s.usageRepo == nil {
		return nil, errors.New("usage repository not set")
	}
	return s.usageRepo.List(ctx)
}

func (s *CatalogService) listReplies(ctx context.Context) ([]*models.NoticeReply, error) {
	if s.replyRepo == nil {
		return nil, errors.New("reply repository not set")
	}
	return s.replyRepo.List(ctx)
}
