package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"casebank-backend/models"

	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "casebank.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestSQLiteJudgmentLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteJudgmentRepository(openTestDB(t))

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	first := &models.Judgment{
		ID:         "1700000001",
		CaseName:   "State v. Kumar",
		ActName:    "Evidence Act",
		BriefFacts: "Disputed recovery",
		PDFRefs:    models.PDFRefs{"1700000001_order.pdf", "1700000001_annex.pdf"},
		Status:     models.StatusGoodLaw,
		CreatedAt:  base,
	}
	second := &models.Judgment{
		ID:        "1700000002",
		CaseName:  "Mehta v. Union",
		ActName:   "Contract Act",
		Status:    models.StatusOverruled,
		CreatedAt: base.Add(time.Minute),
	}

	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("create second: %v", err)
	}

	got, err := repo.GetByID(ctx, "1700000001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CaseName != "State v. Kumar" {
		t.Fatalf("case name = %q", got.CaseName)
	}
	if len(got.PDFRefs) != 2 || got.PDFRefs[0] != "1700000001_order.pdf" {
		t.Fatalf("pdf refs did not survive storage: %v", got.PDFRefs)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != "1700000001" || all[1].ID != "1700000002" {
		t.Fatalf("expected insertion order, got %v, %v", all[0].ID, all[1].ID)
	}
}

func TestSQLiteJudgmentUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteJudgmentRepository(openTestDB(t))

	original := &models.Judgment{
		ID:        "1700000010",
		CaseName:  "Rao v. State",
		ActName:   "Penal Code",
		PDFRefs:   models.PDFRefs{"1700000010_scan.pdf"},
		Status:    models.StatusGoodLaw,
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := repo.Create(ctx, original); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated := &models.Judgment{
		ID:       "1700000010",
		CaseName: "Rao v. State of Kerala",
		ActName:  "Penal Code",
		PDFRefs:  original.PDFRefs,
		Status:   models.StatusDistinguished,
	}
	if err := repo.Update(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByID(ctx, "1700000010")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.CaseName != "Rao v. State of Kerala" || got.Status != models.StatusDistinguished {
		t.Fatalf("update not applied: %+v", got)
	}
	if !got.CreatedAt.Equal(original.CreatedAt) {
		t.Fatalf("created_at changed on update: %v", got.CreatedAt)
	}

	missing := &models.Judgment{ID: "never-stored", CaseName: "X"}
	if err := repo.Update(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteUsageAndReplyRepositories(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	usages := NewSQLiteUsageRepository(db)
	replies := NewSQLiteReplyRepository(db)

	usage := &models.InternalUsage{
		ID:                 "1700000020",
		JudgmentID:         "1700000001",
		InternalMatterName: "Acme Corp",
		UsageNotes:         "Cited in reply to show recovery was tainted",
	}
	if err := usages.Create(ctx, usage); err != nil {
		t.Fatalf("create usage: %v", err)
	}

	gotUsages, err := usages.List(ctx)
	if err != nil {
		t.Fatalf("list usages: %v", err)
	}
	if len(gotUsages) != 1 || gotUsages[0].InternalMatterName != "Acme Corp" {
		t.Fatalf("unexpected usages: %+v", gotUsages)
	}

	reply := &models.NoticeReply{
		ID:                    "1700000030",
		MatterName:            "Acme Corp",
		NoticeText:            "Demand notice under section 138",
		InternalJudgmentsUsed: "State v. Kumar, Mehta v. Union",
		FinalReply:            "We deny the claim in full.",
	}
	if err := replies.Create(ctx, reply); err != nil {
		t.Fatalf("create reply: %v", err)
	}

	gotReply, err := replies.GetByID(ctx, "1700000030")
	if err != nil {
		t.Fatalf("get reply: %v", err)
	}
	if gotReply.MatterName != "Acme Corp" || gotReply.FinalReply != "We deny the claim in full." {
		t.Fatalf("unexpected reply: %+v", gotReply)
	}

	if _, err := replies.GetByID(ctx, "1700000099"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
