package repository

import (
	"context"
	"errors"

	"casebank-backend/models"
)

// ErrNotFound is returned when a record with the requested ID does not
// exist. Both backends map their driver's miss to this error.
var ErrNotFound = errors.New("record not found")

// JudgmentRepository handles persistence for judgment records.
// Listings return the full collection in insertion order; there is no
// store-side filtering or pagination at this scale.
type JudgmentRepository interface {
	Create(ctx context.Context, judgment *models.Judgment) error
	GetByID(ctx context.Context, id string) (*models.Judgment, error)
	Update(ctx context.Context, judgment *models.Judgment) error
	List(ctx context.Context) ([]*models.Judgment, error)
}

// UsageRepository handles persistence for internal usage links
type UsageRepository interface {
	Create(ctx context.Context, usage *models.InternalUsage) error
	List(ctx context.Context) ([]*models.InternalUsage, error)
}

// ReplyRepository handles persistence for notice replies
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.NoticeReply) error
	GetByID(ctx context.Context, id string) (*models.NoticeReply, error)
	List(ctx context.Context) ([]*models.NoticeReply, error)
}
