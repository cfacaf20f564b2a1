package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"casebank-backend/models"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OpenSQLite establishes a SQLite connection and migrates the record
// tables. A single open connection keeps the pure-Go driver away from
// concurrent-writer locking; the store's contract is last write wins
// anyway.
func OpenSQLite(path string, logger *zap.Logger) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Judgment{}, &models.InternalUsage{}, &models.NoticeReply{}); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("record store initialized", zap.String("backend", "sqlite"), zap.String("path", path))
	}

	return db, nil
}

// SQLiteJudgmentRepository handles judgment records in SQLite
type SQLiteJudgmentRepository struct {
	db *gorm.DB
}

// NewSQLiteJudgmentRepository creates a new SQLite-backed judgment repository
func NewSQLiteJudgmentRepository(db *gorm.DB) *SQLiteJudgmentRepository {
	return &SQLiteJudgmentRepository{db: db}
}

// Create appends a new judgment record
func (r *SQLiteJudgmentRepository) Create(ctx context.Context, judgment *models.Judgment) error {
	if judgment.CreatedAt.IsZero() {
		judgment.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(judgment).Error
}

// GetByID retrieves a judgment by ID
func (r *SQLiteJudgmentRepository) GetByID(ctx context.Context, id string) (*models.Judgment, error) {
	judgment := &models.Judgment{}
	err := r.db.WithContext(ctx).First(judgment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return judgment, nil
}

// Update overwrites a judgment row in full, keeping its original
// created_at so insertion order survives edits.
func (r *SQLiteJudgmentRepository) Update(ctx context.Context, judgment *models.Judgment) error {
	existing := &models.Judgment{}
	err := r.db.WithContext(ctx).First(existing, "id = ?", judgment.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	judgment.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(judgment).Error
}

// List retrieves all judgments in insertion order
func (r *SQLiteJudgmentRepository) List(ctx context.Context) ([]*models.Judgment, error) {
	var judgments []*models.Judgment
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&judgments).Error
	if err != nil {
		return nil, err
	}
	return judgments, nil
}

// SQLiteUsageRepository handles internal usage links in SQLite
type SQLiteUsageRepository struct {
	db *gorm.DB
}

// NewSQLiteUsageRepository creates a new SQLite-backed usage repository
func NewSQLiteUsageRepository(db *gorm.DB) *SQLiteUsageRepository {
	return &SQLiteUsageRepository{db: db}
}

// Create appends a new usage link
func (r *SQLiteUsageRepository) Create(ctx context.Context, usage *models.InternalUsage) error {
	if usage.CreatedAt.IsZero() {
		usage.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(usage).Error
}

// List retrieves all usage links in insertion order
func (r *SQLiteUsageRepository) List(ctx context.Context) ([]*models.InternalUsage, error) {
	var usages []*models.InternalUsage
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&usages).Error
	if err != nil {
		return nil, err
	}
	return usages, nil
}

// SQLiteReplyRepository handles notice replies in SQLite
type SQLiteReplyRepository struct {
	db *gorm.DB
}

// NewSQLiteReplyRepository creates a new SQLite-backed reply repository
func NewSQLiteReplyRepository(db *gorm.DB) *SQLiteReplyRepository {
	return &SQLiteReplyRepository{db: db}
}

// Create appends a new notice reply
func (r *SQLiteReplyRepository) Create(ctx context.Context, reply *models.NoticeReply) error {
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(reply).Error
}

// GetByID retrieves a notice reply by ID
func (r *SQLiteReplyRepository) GetByID(ctx context.Context, id string) (*models.NoticeReply, error) {
	reply := &models.NoticeReply{}
	err := r.db.WithContext(ctx).First(reply, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return reply, nil
}

// List retrieves all notice replies in insertion order
func (r *SQLiteReplyRepository) List(ctx context.Context) ([]*models.NoticeReply, error) {
	var replies []*models.NoticeReply
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&replies).Error
	if err != nil {
		return nil, err
	}
	return replies, nil
}
