package service

import (
	"errors"
	"testing"
	"time"

	"go-scanner-ws/internal/broadcast"
	"go-scanner-ws/internal/model"
	"go-scanner-ws/internal/repository"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	db       *gorm.DB
	hub      *broadcast.Hub
	userID   uuid.UUID
	scans    ScanService
	sessions SessionService
	reports  ReportService
	catalog  CatalogService

	articleRepo repository.ArticleRepository
	bomRepo     repository.BOMRepository
	recordRepo  repository.RecordRepository
	sessionRepo repository.SessionRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// A fresh :memory: database exists per connection; pin the pool to one.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.User{}, &model.Article{}, &model.BOM{}, &model.BOMItem{},
		&model.ScanSession{}, &model.ScanRecord{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	user := &model.User{Email: "operator@example.com", FullName: "Operator", IsActive: true}
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	articleRepo := repository.NewArticleRepo(db)
	bomRepo := repository.NewBOMRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	recordRepo := repository.NewRecordRepo(db)
	hub := broadcast.NewHub()

	scans := NewScanService(db, sessionRepo, recordRepo, articleRepo, bomRepo, hub)
	sessions := NewSessionService(sessionRepo, recordRepo, bomRepo, hub)
	reports := NewReportService(sessionRepo, recordRepo, bomRepo, userRepo, scans)
	catalog := NewCatalogService(articleRepo, bomRepo)

	return &fixture{
		db:          db,
		hub:         hub,
		userID:      user.ID,
		scans:       scans,
		sessions:    sessions,
		reports:     reports,
		catalog:     catalog,
		articleRepo: articleRepo,
		bomRepo:     bomRepo,
		recordRepo:  recordRepo,
		sessionRepo: sessionRepo,
	}
}

func (f *fixture) createBOM(t *testing.T, category string, items map[string]float64) *model.BOM {
	t.Helper()
	bom := &model.BOM{
		Name:       "test-" + category,
		Category:   category,
		UploadedBy: f.userID,
		UploadedAt: time.Now().UTC(),
		IsActive:   true,
	}
	for sap, qty := range items {
		bom.Items = append(bom.Items, model.BOMItem{SAPArticle: sap, Quantity: qty})
	}
	if err := f.bomRepo.Create(bom); err != nil {
		t.Fatalf("create bom: %v", err)
	}
	return bom
}

func (f *fixture) createBOMSession(t *testing.T, bom *model.BOM) *model.ScanSession {
	t.Helper()
	session, err := f.sessions.CreateSession(f.userID, &CreateSessionRequest{
		Mode:     model.ModeBOM,
		Category: bom.Category,
		BOMID:    &bom.ID,
	})
	if err != nil {
		t.Fatalf("create bom session: %v", err)
	}
	return session
}

func (f *fixture) createInventorySession(t *testing.T) *model.ScanSession {
	t.Helper()
	session, err := f.sessions.CreateSession(f.userID, &CreateSessionRequest{
		Mode: model.ModeInventory,
	})
	if err != nil {
		t.Fatalf("create inventory session: %v", err)
	}
	return session
}

func (f *fixture) scan(t *testing.T, sessionID uuid.UUID, sap string, qty float64) *model.ScanRecord {
	t.Helper()
	record, err := f.scans.RecordScan(f.userID, &RecordScanRequest{
		SessionID:  sessionID,
		SAPArticle: sap,
		Quantity:   qty,
	})
	if err != nil {
		t.Fatalf("scan %s qty %v: %v", sap, qty, err)
	}
	return record
}

func TestRecordScanStatusClassification(t *testing.T) {
	f := newFixture(t)
	bom := f.createBOM(t, "ELEC", map[string]float64{"100200": 5})

	cases := []struct {
		name string
		qty  float64
		want model.ScanStatus
	}{
		{"exact quantity matches", 5, model.StatusMatch},
		{"excess quantity is over", 7, model.StatusOver},
		{"short quantity is under", 3, model.StatusUnder},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			session := f.createBOMSession(t, bom)
			record := f.scan(t, session.ID, "100200", tc.qty)
			if record.Status != tc.want {
				t.Errorf("status = %s, want %s", record.Status, tc.want)
			}
			if record.ExpectedQuantity == nil || *record.ExpectedQuantity != 5 {
				t.Errorf("expected quantity = %v, want 5", record.ExpectedQuantity)
			}
		})
	}
}

func TestRecordScanCumulativeStatus(t *testing.T) {
	f := newFixture(t)
	bom := f.createBOM(t, "ELEC", map[string]float64{"100200": 5})
	session := f.createBOMSession(t, bom)

	first := f.scan(t, session.ID, "100200", 2)
	if first.Status != model.StatusUnder {
		t.Fatalf("first scan status = %s, want UNDER", first.Status)
	}

	second := f.scan(t, session.ID, "100200", 3)
	if second.Status != model.StatusMatch {
		t.Fatalf("second scan status = %s, want MATCH (cumulative 5)", second.Status)
	}

	third := f.scan(t, session.ID, "100200", 1)
	if third.Status != model.StatusOver {
		t.Fatalf("third scan status = %s, want OVER (cumulative 6)", third.Status)
	}

	// Earlier records keep the status they were written with.
	stored, err := f.recordRepo.FindByID(first.ID)
	if err != nil {
		t.Fatalf("reload first record: %v", err)
	}
	if stored.Status != model.StatusUnder {
		t.Errorf("first record status after later scans = %s, want UNDER", stored.Status)
	}
}

func TestRecordScanUnlistedArticle(t *testing.T) {
	f := newFixture(t)
	bom := f.createBOM(t, "ELEC", map[string]float64{"100200": 5})
	session := f.createBOMSession(t, bom)

	record := f.scan(t, session.ID, "999999", 1)
	if record.Status != model.StatusOver {
		t.Errorf("unlisted article status = %s, want OVER", record.Status)
	}
	if record.ExpectedQuantity != nil {
		t.Errorf("unlisted article expected quantity = %v, want nil", *record.ExpectedQuantity)
	}

	// A quantity edit cannot make an unlisted article anything but OVER.
	updated, err := f.scans.UpdateQuantity(f.userID, record.ID, 100)
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if updated.Status != model.StatusOver {
		t.Errorf("unlisted article status after update = %s, want OVER", updated.Status)
	}
}

func TestUpdateQuantityRecomputesStatus(t *testing.T) {
	f := newFixture(t)
	bom := f.createBOM(t, "ELEC", map[string]float64{"100200": 5})
	session := f.createBOMSession(t, bom)

	record := f.scan(t, session.ID, "100200", 3)
	if record.Status != model.StatusUnder {
		t.Fatalf("initial status = %s, want UNDER", record.Status)
	}

	updated, err := f.scans.UpdateQuantity(f.userID, record.ID, 5)
	if err != nil {
		t.Fatalf("update to 5: %v", err)
	}
	if updated.Status != model.StatusMatch {
		t.Errorf("status after update to 5 = %s, want MATCH", updated.Status)
	}

	updated, err = f.scans.UpdateQuantity(f.userID, record.ID, 9)
	if err != nil {
		t.Fatalf("update to 9: %v", err)
	}
	if updated.Status != model.StatusOver {
		t.Errorf("status after update to 9 = %s, want OVER", updated.Status)
	}
}

func TestDeleteRecordLeavesSiblingStatuses(t *testing.T) {
	f := newFixture(t)
	bom := f.createBOM(t, "ELEC", map[string]float64{"100200": 5})
	session := f.createBOMSession(t, bom)

	first := f.scan(t, session.ID, "100200", 3)
	second := f.scan(t, session.ID, "100200", 2)
	if second.Status != model.StatusMatch {
		t.Fatalf("second scan status = %s, want MATCH", second.Status)
	}

	if err := f.scans.DeleteRecord(f.userID, second.ID); err != nil {
		t.Fatalf("delete record: %v", err)
	}

	stored, err := f.recordRepo.FindByID(first.ID)
	if err != nil {
		t.Fatalf("reload sibling: %v", err)
	}
	if stored.Status != model.StatusUnder {
		t.Errorf("sibling status after delete = %s, want UNDER (no recompute)", stored.Status)
	}
}

func TestCategoryResolutionOrder(t *testing.T) {
	f := newFixture(t)
	if err := f.articleRepo.ReplaceAll([]model.Article{
		{SAPArticle: "100200", PartNumber: "PN-1", Description: "Relay", Category: "ELEC"},
	}); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	bom := f.createBOM(t, "MECH", map[string]float64{"100200": 1, "555555": 1})
	session := f.createBOMSession(t, bom)

	// Catalog wins even when a manual category is supplied.
	record, err := f.scans.RecordScan(f.userID, &RecordScanRequest{
		SessionID:      session.ID,
		SAPArticle:     "100200",
		ManualCategory: "OTHER",
	})
	if err != nil {
		t.Fatalf("scan catalog article: %v", err)
	}
	if record.DetectedCategory != "ELEC" {
		t.Errorf("detected category = %q, want ELEC (catalog)", record.DetectedCategory)
	}
	if record.PartNumber != "PN-1" || record.Description != "Relay" {
		t.Errorf("catalog fields not copied: %q / %q", record.PartNumber, record.Description)
	}

	// Unknown article with a manual category uses the manual one.
	record, err = f.scans.RecordScan(f.userID, &RecordScanRequest{
		SessionID:      session.ID,
		SAPArticle:     "555555",
		ManualCategory: "OTHER",
	})
	if err != nil {
		t.Fatalf("scan manual article: %v", err)
	}
	if record.DetectedCategory != "OTHER" {
		t.Errorf("detected category = %q, want OTHER (manual)", record.DetectedCategory)
	}

	// Unknown article with nothing manual falls back to the session category.
	record = f.scan(t, session.ID, "777777", 1)
	if record.DetectedCategory != "MECH" {
		t.Errorf("detected category = %q, want MECH (session)", record.DetectedCategory)
	}
}

func TestScanDefaultQuantity(t *testing.T) {
	f := newFixture(t)
	session := f.createInventorySession(t)

	record, err := f.scans.RecordScan(f.userID, &RecordScanRequest{
		SessionID:  session.ID,
		SAPArticle: "100200",
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if record.Quantity != 1 {
		t.Errorf("quantity = %v, want default 1", record.Quantity)
	}
	if record.Status != "" {
		t.Errorf("inventory scan status = %q, want empty", record.Status)
	}
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t)
	session := f.createInventorySession(t)

	ended, err := f.sessions.EndSession(f.userID, session.ID)
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	if ended.IsActive || ended.EndedAt == nil {
		t.Fatalf("session not marked ended: active=%v endedAt=%v", ended.IsActive, ended.EndedAt)
	}

	if _, err := f.sessions.EndSession(f.userID, session.ID); !errors.Is(err, ErrSessionInactive) {
		t.Errorf("ending an ended session: err = %v, want ErrSessionInactive", err)
	}

	_, err = f.scans.RecordScan(f.userID, &RecordScanRequest{
		SessionID:  session.ID,
		SAPArticle: "100200",
	})
	if !errors.Is(err, ErrSessionInactive) {
		t.Errorf("scan into ended session: err = %v, want ErrSessionInactive", err)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	f := newFixture(t)
	bom := f.createBOM(t, "ELEC", map[string]float64{"100200": 1})

	if _, err := f.sessions.CreateSession(f.userID, &CreateSessionRequest{
		Mode:  model.ModeBOM,
		BOMID: &bom.ID,
	}); !errors.Is(err, ErrCategoryRequired) {
		t.Errorf("bom session without category: err = %v, want ErrCategoryRequired", err)
	}

	if _, err := f.sessions.CreateSession(f.userID, &CreateSessionRequest{
		Mode:     model.ModeBOM,
		Category: "ELEC",
	}); !errors.Is(err, ErrBOMIDRequired) {
		t.Errorf("bom session without bom_id: err = %v, want ErrBOMIDRequired", err)
	}

	if _, err := f.sessions.CreateSession(f.userID, &CreateSessionRequest{
		Mode:     model.ModeBOM,
		Category: "MECH",
		BOMID:    &bom.ID,
	}); !errors.Is(err, ErrCategoryMismatch) {
		t.Errorf("bom session with wrong category: err = %v, want ErrCategoryMismatch", err)
	}
}

func TestOwnershipEnforcement(t *testing.T) {
	f := newFixture(t)
	session := f.createInventorySession(t)
	record := f.scan(t, session.ID, "100200", 1)

	stranger := &model.User{Email: "other@example.com", FullName: "Other", IsActive: true}
	if err := stranger.SetPassword("secret123"); err != nil {
		t.Fatal(err)
	}
	if err := f.db.Create(stranger).Error; err != nil {
		t.Fatal(err)
	}

	if _, err := f.scans.UpdateQuantity(stranger.ID, record.ID, 2); !errors.Is(err, ErrNotOwner) {
		t.Errorf("foreign record update: err = %v, want ErrNotOwner", err)
	}
	if err := f.scans.DeleteRecord(stranger.ID, record.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("foreign record delete: err = %v, want ErrNotOwner", err)
	}
	// A foreign session read is indistinguishable from a missing one.
	if _, err := f.scans.GetSessionRecords(stranger.ID, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("foreign session read: err = %v, want ErrSessionNotFound", err)
	}
}

func TestComputeMissingItems(t *testing.T) {
	f := newFixture(t)
	bom := f.createBOM(t, "ELEC", map[string]float64{"A1": 2, "B2": 3, "C3": 4})
	session := f.createBOMSession(t, bom)

	f.scan(t, session.ID, "A1", 2)

	missing, err := f.scans.ComputeMissingItems(f.userID, session.ID)
	if err != nil {
		t.Fatalf("compute missing: %v", err)
	}
	if len(missing) != 2 {
		t.Fatalf("missing count = %d, want 2", len(missing))
	}
	for _, item := range missing {
		if item.SAPArticle == "A1" {
			t.Errorf("scanned article %s reported missing", item.SAPArticle)
		}
		if item.Status != string(model.StatusMissing) {
			t.Errorf("missing status = %q, want MISSING", item.Status)
		}
		if item.Difference != -item.ExpectedQuantity {
			t.Errorf("difference = %v, want %v", item.Difference, -item.ExpectedQuantity)
		}
	}

	// Inventory sessions have no manifest, so nothing can be missing.
	inv := f.createInventorySession(t)
	missing, err = f.scans.ComputeMissingItems(f.userID, inv.ID)
	if err != nil {
		t.Fatalf("compute missing for inventory: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("inventory missing count = %d, want 0", len(missing))
	}
}

func TestSessionSummaryCounts(t *testing.T) {
	f := newFixture(t)
	bom := f.createBOM(t, "ELEC", map[string]float64{"A1": 2, "B2": 3})
	session := f.createBOMSession(t, bom)

	f.scan(t, session.ID, "A1", 2) // MATCH
	f.scan(t, session.ID, "B2", 1) // UNDER
	f.scan(t, session.ID, "Z9", 1) // OVER, unlisted

	summary, err := f.scans.GetSessionSummary(f.userID, session.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalItems != 3 {
		t.Errorf("total = %d, want 3", summary.TotalItems)
	}
	if summary.MatchCount != 1 || summary.UnderCount != 1 || summary.OverCount != 1 {
		t.Errorf("counts = match %d over %d under %d, want 1/1/1",
			summary.MatchCount, summary.OverCount, summary.UnderCount)
	}
}

func TestInventorySummaryGrouping(t *testing.T) {
	f := newFixture(t)
	session := f.createInventorySession(t)

	f.scan(t, session.ID, "A1", 2)
	f.scan(t, session.ID, "A1", 3)
	f.scan(t, session.ID, "B2", 1)

	summary, err := f.scans.GetInventorySummary(f.userID, session.ID)
	if err != nil {
		t.Fatalf("inventory summary: %v", err)
	}
	if summary.TotalUniqueItem != 2 {
		t.Errorf("unique items = %d, want 2", summary.TotalUniqueItem)
	}
	if summary.TotalScans != 3 {
		t.Errorf("total scans = %d, want 3", summary.TotalScans)
	}
	if summary.TotalQuantity != 6 {
		t.Errorf("total quantity = %v, want 6", summary.TotalQuantity)
	}
	for _, item := range summary.Items {
		if item.SAPArticle == "A1" && item.TotalQuantity != 5 {
			t.Errorf("A1 total = %v, want 5", item.TotalQuantity)
		}
	}
}

func TestReportCompletionCanExceedHundred(t *testing.T) {
	f := newFixture(t)
	bom := f.createBOM(t, "ELEC", map[string]float64{"A1": 1, "B2": 1})
	session := f.createBOMSession(t, bom)

	f.scan(t, session.ID, "A1", 1)
	f.scan(t, session.ID, "B2", 1)
	f.scan(t, session.ID, "Z9", 1) // unlisted

	preview, err := f.reports.Preview(f.userID, session.ID)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.Stats.CompletionPct != 150 {
		t.Errorf("completion = %v, want 150 (3 unique over 2 manifest lines)", preview.Stats.CompletionPct)
	}
	if preview.Stats.MissingCount != 0 {
		t.Errorf("missing = %d, want 0", preview.Stats.MissingCount)
	}
}

func TestReportPreviewMergesMissingIntoDiscrepancies(t *testing.T) {
	f := newFixture(t)
	bom := f.createBOM(t, "ELEC", map[string]float64{"A1": 2, "B2": 3})
	session := f.createBOMSession(t, bom)

	f.scan(t, session.ID, "A1", 5) // OVER

	preview, err := f.reports.Preview(f.userID, session.ID)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	statuses := map[string]string{}
	for _, item := range preview.Discrepancies {
		statuses[item.SAPArticle] = item.Status
	}
	if statuses["A1"] != string(model.StatusOver) {
		t.Errorf("A1 status = %q, want OVER", statuses["A1"])
	}
	if statuses["B2"] != string(model.StatusMissing) {
		t.Errorf("B2 status = %q, want MISSING", statuses["B2"])
	}
}

func TestDeleteSessionCascades(t *testing.T) {
	f := newFixture(t)
	session := f.createInventorySession(t)
	f.scan(t, session.ID, "A1", 1)
	f.scan(t, session.ID, "B2", 1)

	listener := f.hub.Subscribe(broadcast.AllSessions)
	defer f.hub.Unsubscribe(listener)

	if err := f.sessions.DeleteSession(f.userID, session.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	if _, err := f.sessionRepo.FindByID(session.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("session still present after delete: err = %v", err)
	}
	count, err := f.recordRepo.Count(session.ID)
	if err != nil {
		t.Fatalf("count records: %v", err)
	}
	if count != 0 {
		t.Errorf("records left after cascade = %d, want 0", count)
	}

	select {
	case ev := <-listener.Events():
		if ev.Type != broadcast.EventSessionDeleted || ev.SessionID != session.ID {
			t.Errorf("event = %+v, want session_deleted for %s", ev, session.ID)
		}
	default:
		t.Error("no session_deleted event broadcast")
	}
}

func TestScanBroadcastsAfterCommit(t *testing.T) {
	f := newFixture(t)
	bom := f.createBOM(t, "ELEC", map[string]float64{"A1": 2})
	session := f.createBOMSession(t, bom)

	scoped := f.hub.Subscribe(session.ID)
	defer f.hub.Unsubscribe(scoped)
	all := f.hub.Subscribe(broadcast.AllSessions)
	defer f.hub.Unsubscribe(all)

	record := f.scan(t, session.ID, "A1", 2)

	for name, listener := range map[string]*broadcast.Listener{"scoped": scoped, "all": all} {
		select {
		case ev := <-listener.Events():
			if ev.Type != broadcast.EventScan {
				t.Errorf("%s listener event type = %s, want scan", name, ev.Type)
			}
			if ev.Record == nil || ev.Record.ID != record.ID {
				t.Errorf("%s listener event lacks the record payload", name)
			}
			// The broadcast payload carries the already-committed status.
			if ev.Record != nil && ev.Record.Status != model.StatusMatch {
				t.Errorf("%s listener record status = %s, want MATCH", name, ev.Record.Status)
			}
		default:
			t.Errorf("%s listener received no event", name)
		}
	}
}

func TestCumulativeStatusSequences(t *testing.T) {
	cases := []struct {
		name     string
		expected float64
		scans    []float64
		want     []model.ScanStatus
	}{
		{
			name:     "three equal scans overshoot",
			expected: 10,
			scans:    []float64{4, 4, 4},
			want:     []model.ScanStatus{model.StatusUnder, model.StatusUnder, model.StatusOver},
		},
		{
			name:     "two halves land exactly",
			expected: 10,
			scans:    []float64{5, 5},
			want:     []model.ScanStatus{model.StatusUnder, model.StatusMatch},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			bom := f.createBOM(t, "ELEC", map[string]float64{"100200": tc.expected})
			session := f.createBOMSession(t, bom)

			for i, qty := range tc.scans {
				record := f.scan(t, session.ID, "100200", qty)
				if record.Status != tc.want[i] {
					t.Errorf("scan %d (qty %v): status = %s, want %s",
						i+1, qty, record.Status, tc.want[i])
				}
			}
		})
	}
}

func TestFullSessionScenario(t *testing.T) {
	f := newFixture(t)
	bom := f.createBOM(t, "CX", map[string]float64{"A": 5, "B": 2})
	session := f.createBOMSession(t, bom)

	first := f.scan(t, session.ID, "A", 3)
	second := f.scan(t, session.ID, "A", 2)
	third := f.scan(t, session.ID, "B", 2)

	if first.Status != model.StatusUnder {
		t.Errorf("A#1 status = %s, want UNDER", first.Status)
	}
	if second.Status != model.StatusMatch {
		t.Errorf("A#2 status = %s, want MATCH", second.Status)
	}
	if third.Status != model.StatusMatch {
		t.Errorf("B#1 status = %s, want MATCH", third.Status)
	}

	missing, err := f.scans.ComputeMissingItems(f.userID, session.ID)
	if err != nil {
		t.Fatalf("missing: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("missing = %v, want empty", missing)
	}

	preview, err := f.reports.Preview(f.userID, session.ID)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.Stats.CompletionPct != 100 {
		t.Errorf("completion = %v, want 100", preview.Stats.CompletionPct)
	}
}

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		total, expected float64
		want            model.ScanStatus
	}{
		{5, 5, model.StatusMatch},
		{6, 5, model.StatusOver},
		{4, 5, model.StatusUnder},
		{0.5, 0.5, model.StatusMatch},
		{0, 5, model.StatusUnder},
	}
	for _, tc := range cases {
		if got := classifyStatus(tc.total, tc.expected); got != tc.want {
			t.Errorf("classifyStatus(%v, %v) = %s, want %s", tc.total, tc.expected, got, tc.want)
		}
	}
}
