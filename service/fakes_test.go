package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"casebank-backend/models"
	"casebank-backend/repository"
)

// memJudgmentRepo is an in-memory JudgmentRepository preserving
// insertion order
type memJudgmentRepo struct {
	judgments []*models.Judgment
	listErr   error
}

func (r *memJudgmentRepo) Create(ctx context.Context, judgment *models.Judgment) error {
	copied := *judgment
	r.judgments = append(r.judgments, &copied)
	return nil
}

func (r *memJudgmentRepo) GetByID(ctx context.Context, id string) (*models.Judgment, error) {
	for _, judgment := range r.judgments {
		if judgment.ID == id {
			copied := *judgment
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memJudgmentRepo) Update(ctx context.Context, judgment *models.Judgment) error {
	for i, existing := range r.judgments {
		if existing.ID == judgment.ID {
			copied := *judgment
			r.judgments[i] = &copied
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memJudgmentRepo) List(ctx context.Context) ([]*models.Judgment, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*models.Judgment, 0, len(r.judgments))
	for _, judgment := range r.judgments {
		copied := *judgment
		out = append(out, &copied)
	}
	return out, nil
}

// memUsageRepo is an in-memory UsageRepository
type memUsageRepo struct {
	usages []*models.InternalUsage
}

func (r *memUsageRepo) Create(ctx context.Context, usage *models.InternalUsage) error {
	copied := *usage
	r.usages = append(r.usages, &copied)
	return nil
}

func (r *memUsageRepo) List(ctx context.Context) ([]*models.InternalUsage, error) {
	out := make([]*models.InternalUsage, 0, len(r.usages))
	for _, usage := range r.usages {
		copied := *usage
		out = append(out, &copied)
	}
	return out, nil
}

// memReplyRepo is an in-memory ReplyRepository
type memReplyRepo struct {
	replies []*models.NoticeReply
}

func (r *memReplyRepo) Create(ctx context.Context, reply *models.NoticeReply) error {
	copied := *reply
	r.replies = append(r.replies, &copied)
	return nil
}

func (r *memReplyRepo) GetByID(ctx context.Context, id string) (*models.NoticeReply, error) {
	for _, reply := range r.replies {
		if reply.ID == id {
			copied := *reply
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memReplyRepo) List(ctx context.Context) ([]*models.NoticeReply, error) {
	out := make([]*models.NoticeReply, 0, len(r.replies))
	for _, reply := range r.replies {
		copied := *reply
		out = append(out, &copied)
	}
	return out, nil
}

// memStorage is an in-memory blob store. Filenames listed in failOn
// make Upload fail; blob IDs listed in lost make Download fail.
type memStorage struct {
	blobs  map[string][]byte
	failOn map[string]bool
	lost   map[string]bool
}

func newMemStorage() *memStorage {
	return &memStorage{
		blobs:  make(map[string][]byte),
		failOn: make(map[string]bool),
		lost:   make(map[string]bool),
	}
}

func (s *memStorage) Upload(ctx context.Context, judgmentID, filename string, data io.Reader) (string, error) {
	if s.failOn[filename] {
		return "", errors.New("upload rejected")
	}
	content, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	blobID := fmt.Sprintf("%s_%s", judgmentID, filename)
	s.blobs[blobID] = content
	return blobID, nil
}

func (s *memStorage) Download(ctx context.Context, blobID string) (io.ReadCloser, error) {
	if s.lost[blobID] {
		return nil, errors.New("blob unavailable")
	}
	content, ok := s.blobs[blobID]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (s *memStorage) Delete(ctx context.Context, blobID string) error {
	delete(s.blobs, blobID)
	return nil
}

// stubProvider returns a canned completion and records the prompt
type stubProvider struct {
	response string
	err      error
	prompts  []string
}

func (p *stubProvider) Name() string {
	return "stub"
}

func (p *stubProvider) Complete(ctx context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

// stubExtractor returns canned text for any input
type stubExtractor struct {
	text      string
	calls     int
	lastFiles int
}

func (e *stubExtractor) Text(files [][]byte) string {
	e.calls++
	e.lastFiles = len(files)
	return e.text
}

// seqIDs hands out fixed IDs in order
type seqIDs struct {
	ids  []string
	next int
}

func (p *seqIDs) NewID() string {
	id := p.ids[p.next%len(p.ids)]
	p.next++
	return id
}
