package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"casebank-backend/models"
	"casebank-backend/repository"
)

func newTestCatalogService(judgments *memJudgmentRepo, usages *memUsageRepo, replies *memReplyRepo, store *memStorage) *CatalogService {
	return NewCatalogService(
		CatalogWithJudgmentRepository(judgments),
		CatalogWithUsageRepository(usages),
		CatalogWithReplyRepository(replies),
		CatalogWithStorage(store),
		CatalogWithIDProvider(&seqIDs{ids: []string{"1700000001", "1700000002", "1700000003"}}),
	)
}

func TestCreateJudgment(t *testing.T) {
	judgments := &memJudgmentRepo{}
	store := newMemStorage()
	svc := newTestCatalogService(judgments, &memUsageRepo{}, &memReplyRepo{}, store)

	result, err := svc.CreateJudgment(context.Background(), CreateJudgmentRequest{
		CaseName:     "State v. Kumar",
		ActName:      "IT Act",
		BriefFacts:   "data breach at a bank",
		DecisionHeld: "appeal dismissed",
		Status:       "good_law",
		Files: []UploadFile{
			{Filename: "order.pdf", Data: []byte("first")},
			{Filename: "appeal.pdf", Data: []byte("second")},
		},
	})
	if err != nil {
		t.Fatalf("CreateJudgment failed: %v", err)
	}

	if result.Judgment.ID != "1700000001" {
		t.Errorf("expected assigned ID 1700000001, got %q", result.Judgment.ID)
	}
	wantRefs := []string{"1700000001_order.pdf", "1700000001_appeal.pdf"}
	if len(result.Judgment.PDFRefs) != len(wantRefs) {
		t.Fatalf("expected %d refs, got %d", len(wantRefs), len(result.Judgment.PDFRefs))
	}
	for i, ref := range wantRefs {
		if result.Judgment.PDFRefs[i] != ref {
			t.Errorf("ref %d: expected %q, got %q", i, ref, result.Judgment.PDFRefs[i])
		}
		if _, ok := store.blobs[ref]; !ok {
			t.Errorf("blob %q was not stored", ref)
		}
	}
	if len(judgments.judgments) != 1 {
		t.Fatalf("expected 1 stored judgment, got %d", len(judgments.judgments))
	}
}

func TestCreateJudgmentValidation(t *testing.T) {
	svc := newTestCatalogService(&memJudgmentRepo{}, &memUsageRepo{}, &memReplyRepo{}, newMemStorage())

	cases := []struct {
		name string
		req  CreateJudgmentRequest
	}{
		{"missing case name", CreateJudgmentRequest{BriefFacts: "facts", DecisionHeld: "held"}},
		{"missing brief facts", CreateJudgmentRequest{CaseName: "State v. Kumar", DecisionHeld: "held"}},
		{"missing decision", CreateJudgmentRequest{CaseName: "State v. Kumar", BriefFacts: "facts"}},
		{"unknown status", CreateJudgmentRequest{CaseName: "State v. Kumar", BriefFacts: "facts", DecisionHeld: "held", Status: "🟢 Good Law"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateJudgment(context.Background(), tc.req)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateJudgmentSkipsFailedUploads(t *testing.T) {
	store := newMemStorage()
	store.failOn["broken.pdf"] = true
	svc := newTestCatalogService(&memJudgmentRepo{}, &memUsageRepo{}, &memReplyRepo{}, store)

	result, err := svc.CreateJudgment(context.Background(), CreateJudgmentRequest{
		CaseName:     "State v. Kumar",
		BriefFacts:   "facts",
		DecisionHeld: "held",
		Files: []UploadFile{
			{Filename: "broken.pdf", Data: []byte("x")},
			{Filename: "order.pdf", Data: []byte("y")},
		},
	})
	if err != nil {
		t.Fatalf("CreateJudgment failed: %v", err)
	}
	if len(result.Judgment.PDFRefs) != 1 || result.Judgment.PDFRefs[0] != "1700000001_order.pdf" {
		t.Errorf("expected only the surviving ref, got %v", result.Judgment.PDFRefs)
	}
}

func TestUpdateJudgmentPreservesRefsAndCreatedAt(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	judgments := &memJudgmentRepo{judgments: []*models.Judgment{{
		ID:        "1700000001",
		CaseName:  "State v. Kumar",
		ActName:   "IT Act",
		PDFRefs:   models.PDFRefs{"1700000001_order.pdf"},
		Status:    models.StatusGoodLaw,
		CreatedAt: created,
	}}}
	svc := newTestCatalogService(judgments, &memUsageRepo{}, &memReplyRepo{}, newMemStorage())

	result, err := svc.UpdateJudgment(context.Background(), UpdateJudgmentRequest{
		ID:           "1700000001",
		CaseName:     "State v. Kumar",
		ActName:      "IT Act 2000",
		BriefFacts:   "facts",
		DecisionHeld: "held",
		Status:       "overruled",
	})
	if err != nil {
		t.Fatalf("UpdateJudgment failed: %v", err)
	}
	if result.Judgment.ActName != "IT Act 2000" {
		t.Errorf("expected act name updated, got %q", result.Judgment.ActName)
	}
	if result.Judgment.Status != models.StatusOverruled {
		t.Errorf("expected status overruled, got %q", result.Judgment.Status)
	}
	if len(result.Judgment.PDFRefs) != 1 || result.Judgment.PDFRefs[0] != "1700000001_order.pdf" {
		t.Errorf("expected refs preserved, got %v", result.Judgment.PDFRefs)
	}
	if !result.Judgment.CreatedAt.Equal(created) {
		t.Errorf("expected created_at preserved, got %v", result.Judgment.CreatedAt)
	}

	newRefs := []string{"1700000001_replacement.pdf"}
	result, err = svc.UpdateJudgment(context.Background(), UpdateJudgmentRequest{
		ID:           "1700000001",
		CaseName:     "State v. Kumar",
		ActName:      "IT Act 2000",
		BriefFacts:   "facts",
		DecisionHeld: "held",
		Status:       "overruled",
		PDFRefs:      &newRefs,
	})
	if err != nil {
		t.Fatalf("UpdateJudgment with refs failed: %v", err)
	}
	if len(result.Judgment.PDFRefs) != 1 || result.Judgment.PDFRefs[0] != "1700000001_replacement.pdf" {
		t.Errorf("expected refs replaced, got %v", result.Judgment.PDFRefs)
	}
}

func TestUpdateJudgmentMissing(t *testing.T) {
	svc := newTestCatalogService(&memJudgmentRepo{}, &memUsageRepo{}, &memReplyRepo{}, newMemStorage())

	_, err := svc.UpdateJudgment(context.Background(), UpdateJudgmentRequest{
		ID:           "9999999999",
		CaseName:     "State v. Kumar",
		BriefFacts:   "facts",
		DecisionHeld: "held",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchJudgmentsJoinsCrossReferences(t *testing.T) {
	judgments := &memJudgmentRepo{judgments: []*models.Judgment{
		{ID: "1", CaseName: "State v. Kumar", ActName: "IT Act", BriefFacts: "data breach at a bank", Status: models.StatusGoodLaw},
		{ID: "2", CaseName: "Rao v. Union", ActName: "Evidence Act", BriefFacts: "land dispute", Status: models.StatusGoodLaw},
	}}
	usages := &memUsageRepo{usages: []*models.InternalUsage{
		{ID: "10", JudgmentID: "1", InternalMatterName: "Acme Corp"},
	}}
	replies := &memReplyRepo{replies: []*models.NoticeReply{
		{ID: "20", MatterName: "Acme Corp", InternalJudgmentsUsed: "State v. Kumar, Rao v. Union"},
	}}
	svc := newTestCatalogService(judgments, usages, replies, newMemStorage())

	result, err := svc.SearchJudgments(context.Background(), SearchJudgmentsRequest{Query: "BREACH"})
	if err != nil {
		t.Fatalf("SearchJudgments failed: %v", err)
	}
	if len(result.Judgments) != 1 {
		t.Fatalf("expected 1 match, got %d", len(result.Judgments))
	}
	view := result.Judgments[0]
	if view.Judgment.ID != "1" {
		t.Errorf("expected judgment 1, got %q", view.Judgment.ID)
	}
	if len(view.Usages) != 1 || view.Usages[0].InternalMatterName != "Acme Corp" {
		t.Errorf("expected the Acme usage link, got %v", view.Usages)
	}
	if len(view.CitingReplies) != 1 || view.CitingReplies[0].ID != "20" {
		t.Errorf("expected the citing reply, got %v", view.CitingReplies)
	}

	all, err := svc.SearchJudgments(context.Background(), SearchJudgmentsRequest{})
	if err != nil {
		t.Fatalf("SearchJudgments without query failed: %v", err)
	}
	if len(all.Judgments) != 2 {
		t.Errorf("expected all judgments on empty query, got %d", len(all.Judgments))
	}
}

func TestDownloadAttachment(t *testing.T) {
	store := newMemStorage()
	store.blobs["1700000001_order.pdf"] = []byte("pdf bytes")
	store.blobs["1700000009_secret.pdf"] = []byte("other record")
	judgments := &memJudgmentRepo{judgments: []*models.Judgment{{
		ID:      "1700000001",
		PDFRefs: models.PDFRefs{"1700000001_order.pdf"},
	}}}
	svc := newTestCatalogService(judgments, &memUsageRepo{}, &memReplyRepo{}, store)

	result, err := svc.DownloadAttachment(context.Background(), DownloadAttachmentRequest{
		JudgmentID: "1700000001",
		BlobID:     "1700000001_order.pdf",
	})
	if err != nil {
		t.Fatalf("DownloadAttachment failed: %v", err)
	}
	defer result.Content.Close()
	content, err := io.ReadAll(result.Content)
	if err != nil {
		t.Fatalf("reading attachment failed: %v", err)
	}
	if string(content) != "pdf bytes" {
		t.Errorf("expected stored content, got %q", content)
	}
	if result.Filename != "order.pdf" {
		t.Errorf("expected display name order.pdf, got %q", result.Filename)
	}

	// A blob that exists but is not listed on the judgment must not
	// be reachable through it.
	_, err = svc.DownloadAttachment(context.Background(), DownloadAttachmentRequest{
		JudgmentID: "1700000001",
		BlobID:     "1700000009_secret.pdf",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unlisted blob, got %v", err)
	}
}

func TestCreateLink(t *testing.T) {
	judgments := &memJudgmentRepo{judgments: []*models.Judgment{{
		ID:       "1700000001",
		CaseName: "State v. Kumar",
		Status:   models.StatusOverruled,
	}}}
	usages := &memUsageRepo{}
	svc := newTestCatalogService(judgments, usages, &memReplyRepo{}, newMemStorage())

	result, err := svc.CreateLink(context.Background(), CreateLinkRequest{
		JudgmentID:         "1700000001",
		InternalMatterName: "Acme Corp",
		UsageNotes:         "cited in reply to demand notice",
	})
	if err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}
	if result.Usage.ID == "" {
		t.Error("expected an assigned usage ID")
	}
	if result.Target == nil || result.Target.Status != models.StatusOverruled {
		t.Errorf("expected the overruled target judgment, got %v", result.Target)
	}
	if len(usages.usages) != 1 {
		t.Fatalf("expected 1 stored usage, got %d", len(usages.usages))
	}

	// Dangling references are stored all the same.
	result, err = svc.CreateLink(context.Background(), CreateLinkRequest{
		JudgmentID:         "404",
		InternalMatterName: "Acme Corp",
	})
	if err != nil {
		t.Fatalf("CreateLink with dangling target failed: %v", err)
	}
	if result.Target != nil {
		t.Errorf("expected nil target for dangling reference, got %v", result.Target)
	}
	if len(usages.usages) != 2 {
		t.Errorf("expected 2 stored usages, got %d", len(usages.usages))
	}

	_, err = svc.CreateLink(context.Background(), CreateLinkRequest{JudgmentID: "1700000001"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation without matter name, got %v", err)
	}
}

func TestListMattersAndMatterRecords(t *testing.T) {
	usages := &memUsageRepo{usages: []*models.InternalUsage{
		{ID: "1", JudgmentID: "j1", InternalMatterName: "Zenith Ltd"},
		{ID: "2", JudgmentID: "j2", InternalMatterName: "Acme Corp"},
		{ID: "3", JudgmentID: "j3", InternalMatterName: ""},
	}}
	replies := &memReplyRepo{replies: []*models.NoticeReply{
		{ID: "4", MatterName: "Acme Corp"},
		{ID: "5", MatterName: "Borealis LLP"},
	}}
	svc := newTestCatalogService(&memJudgmentRepo{}, usages, replies, newMemStorage())

	matters, err := svc.ListMatters(context.Background())
	if err != nil {
		t.Fatalf("ListMatters failed: %v", err)
	}
	want := []string{"Acme Corp", "Borealis LLP", "Zenith Ltd"}
	if len(matters) != len(want) {
		t.Fatalf("expected %d matters, got %v", len(want), matters)
	}
	for i := range want {
		if matters[i] != want[i] {
			t.Errorf("matter %d: expected %q, got %q", i, want[i], matters[i])
		}
	}

	records, err := svc.MatterRecords(context.Background(), MatterRecordsRequest{Name: "Acme Corp"})
	if err != nil {
		t.Fatalf("MatterRecords failed: %v", err)
	}
	if len(records.Usages) != 1 || records.Usages[0].ID != "2" {
		t.Errorf("expected usage 2 for Acme Corp, got %v", records.Usages)
	}
	if len(records.Replies) != 1 || records.Replies[0].ID != "4" {
		t.Errorf("expected reply 4 for Acme Corp, got %v", records.Replies)
	}

	_, err = svc.MatterRecords(context.Background(), MatterRecordsRequest{Name: "  "})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for blank matter, got %v", err)
	}
}

func TestDashboard(t *testing.T) {
	judgments := &memJudgmentRepo{judgments: []*models.Judgment{
		{ID: "1", ActName: "IT Act", Authority: "Supreme Court", Status: models.StatusGoodLaw},
		{ID: "2", ActName: "IT Act", Authority: "", Status: models.StatusGoodLaw},
		{ID: "3", ActName: "", Authority: "Hyderabad HC", Status: models.StatusOverruled},
	}}
	usages := &memUsageRepo{usages: []*models.InternalUsage{{ID: "10"}}}
	replies := &memReplyRepo{replies: []*models.NoticeReply{{ID: "20"}, {ID: "21"}}}
	svc := newTestCatalogService(judgments, usages, replies, newMemStorage())

	result, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if result.JudgmentCount != 3 || result.UsageCount != 1 || result.ReplyCount != 2 {
		t.Errorf("unexpected counts: %d/%d/%d", result.JudgmentCount, result.UsageCount, result.ReplyCount)
	}
	if result.ByAct["IT Act"] != 2 {
		t.Errorf("expected 2 IT Act judgments, got %d", result.ByAct["IT Act"])
	}
	if _, ok := result.ByAct[""]; ok {
		t.Error("expected empty act names to be skipped")
	}
	if result.ByAuthority["Hyderabad HC"] != 1 {
		t.Errorf("expected 1 Hyderabad HC judgment, got %d", result.ByAuthority["Hyderabad HC"])
	}
	if result.ByStatus["good_law"] != 2 || result.ByStatus["overruled"] != 1 {
		t.Errorf("unexpected status breakdown: %v", result.ByStatus)
	}
}
