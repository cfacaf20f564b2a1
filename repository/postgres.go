package repository

import (
	"context"
	"errors"

	"casebank-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresJudgmentRepository handles judgment records in Postgres
type PostgresJudgmentRepository struct {
	db *pgxpool.Pool
}

// NewPostgresJudgmentRepository creates a new Postgres-backed judgment repository
func NewPostgresJudgmentRepository(db *pgxpool.Pool) *PostgresJudgmentRepository {
	return &PostgresJudgmentRepository{db: db}
}

// Create appends a new judgment record
func (r *PostgresJudgmentRepository) Create(ctx context.Context, judgment *models.Judgment) error {
	query := `
		INSERT INTO judgments (
			id, case_name, act_name, section_number, authority,
			brief_facts, decision_held, pdf_file_ids, ai_notes, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at`

	return r.db.QueryRow(
		ctx, query,
		judgment.ID,
		judgment.CaseName,
		judgment.ActName,
		judgment.SectionNumber,
		judgment.Authority,
		judgment.BriefFacts,
		judgment.DecisionHeld,
		judgment.PDFRefs,
		judgment.AINotes,
		judgment.Status,
	).Scan(&judgment.CreatedAt)
}

// GetByID retrieves a judgment by ID
func (r *PostgresJudgmentRepository) GetByID(ctx context.Context, id string) (*models.Judgment, error) {
	judgment := &models.Judgment{}
	query := `
		SELECT id, case_name, act_name, section_number, authority,
			brief_facts, decision_held, pdf_file_ids, ai_notes, status,
			created_at
		FROM judgments
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&judgment.ID,
		&judgment.CaseName,
		&judgment.ActName,
		&judgment.SectionNumber,
		&judgment.Authority,
		&judgment.BriefFacts,
		&judgment.DecisionHeld,
		&judgment.PDFRefs,
		&judgment.AINotes,
		&judgment.Status,
		&judgment.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return judgment, nil
}

// Update overwrites a judgment row in full. The created_at column is
// never touched so insertion order survives edits.
func (r *PostgresJudgmentRepository) Update(ctx context.Context, judgment *models.Judgment) error {
	query := `
		UPDATE judgments SET
			case_name = $2,
			act_name = $3,
			section_number = $4,
			authority = $5,
			brief_facts = $6,
			decision_held = $7,
			pdf_file_ids = $8,
			ai_notes = $9,
			status = $10
		WHERE id = $1`

	tag, err := r.db.Exec(
		ctx, query,
		judgment.ID,
		judgment.CaseName,
		judgment.ActName,
		judgment.SectionNumber,
		judgment.Authority,
		judgment.BriefFacts,
		judgment.DecisionHeld,
		judgment.PDFRefs,
		judgment.AINotes,
		judgment.Status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List retrieves all judgments in insertion order
func (r *PostgresJudgmentRepository) List(ctx context.Context) ([]*models.Judgment, error) {
	query := `
		SELECT id, case_name, act_name, section_number, authority,
			brief_facts, decision_held, pdf_file_ids, ai_notes, status,
			created_at
		FROM judgments
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var judgments []*models.Judgment
	for rows.Next() {
		judgment := &models.Judgment{}
		err := rows.Scan(
			&judgment.ID,
			&judgment.CaseName,
			&judgment.ActName,
			&judgment.SectionNumber,
			&judgment.Authority,
			&judgment.BriefFacts,
			&judgment.DecisionHeld,
			&judgment.PDFRefs,
			&judgment.AINotes,
			&judgment.Status,
			&judgment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		judgments = append(judgments, judgment)
	}

	return judgments, rows.Err()
}

// PostgresUsageRepository handles internal usage links in Postgres
type PostgresUsageRepository struct {
	db *pgxpool.Pool
}

// NewPostgresUsageRepository creates a new Postgres-backed usage repository
func NewPostgresUsageRepository(db *pgxpool.Pool) *PostgresUsageRepository {
	return &PostgresUsageRepository{db: db}
}

// Create appends a new usage link
func (r *PostgresUsageRepository) Create(ctx context.Context, usage *models.InternalUsage) error {
	query := `
		INSERT INTO internal_usages (
			id, judgment_id, internal_matter_name, internal_notice,
			usage_notes, ai_brief
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING created_at`

	return r.db.QueryRow(
		ctx, query,
		usage.ID,
		usage.JudgmentID,
		usage.InternalMatterName,
		usage.InternalNotice,
		usage.UsageNotes,
		usage.AIBrief,
	).Scan(&usage.CreatedAt)
}

// List retrieves all usage links in insertion order
func (r *PostgresUsageRepository) List(ctx context.Context) ([]*models.InternalUsage, error) {
	query := `
		SELECT id, judgment_id, internal_matter_name, internal_notice,
			usage_notes, ai_brief, created_at
		FROM internal_usages
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usages []*models.InternalUsage
	for rows.Next() {
		usage := &models.InternalUsage{}
		err := rows.Scan(
			&usage.ID,
			&usage.JudgmentID,
			&usage.InternalMatterName,
			&usage.InternalNotice,
			&usage.UsageNotes,
			&usage.AIBrief,
			&usage.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		usages = append(usages, usage)
	}

	return usages, rows.Err()
}

// PostgresReplyRepository handles notice replies in Postgres
type PostgresReplyRepository struct {
	db *pgxpool.Pool
}

// NewPostgresReplyRepository creates a new Postgres-backed reply repository
func NewPostgresReplyRepository(db *pgxpool.Pool) *PostgresReplyRepository {
	return &PostgresReplyRepository{db: db}
}

// Create appends a new notice reply
func (r *PostgresReplyRepository) Create(ctx context.Context, reply *models.NoticeReply) error {
	query := `
		INSERT INTO notice_replies (
			id, matter_name, notice_text, internal_judgments_used,
			external_references, final_reply
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING created_at`

	return r.db.QueryRow(
		ctx, query,
		reply.ID,
		reply.MatterName,
		reply.NoticeText,
		reply.InternalJudgmentsUsed,
		reply.ExternalReferences,
		reply.FinalReply,
	).Scan(&reply.CreatedAt)
}

// GetByID retrieves a notice reply by ID
func (r *PostgresReplyRepository) GetByID(ctx context.Context, id string) (*models.NoticeReply, error) {
	reply := &models.NoticeReply{}
	query := `
		SELECT id, matter_name, notice_text, internal_judgments_used,
			external_references, final_reply, created_at
		FROM notice_replies
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&reply.ID,
		&reply.MatterName,
		&reply.NoticeText,
		&reply.InternalJudgmentsUsed,
		&reply.ExternalReferences,
		&reply.FinalReply,
		&reply.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return reply, nil
}

// List retrieves all notice replies in insertion order
func (r *PostgresReplyRepository) List(ctx context.Context) ([]*models.NoticeReply, error) {
	query := `
		SELECT id, matter_name, notice_text, internal_judgments_used,
			external_references, final_reply, created_at
		FROM notice_replies
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var replies []*models.NoticeReply
	for rows.Next() {
		reply := &models.NoticeReply{}
		err := rows.Scan(
			&reply.ID,
			&reply.MatterName,
			&reply.NoticeText,
			&reply.InternalJudgmentsUsed,
			&reply.ExternalReferences,
			&reply.FinalReply,
			&reply.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		replies = append(replies, reply)
	}

	return replies, rows.Err()
}
