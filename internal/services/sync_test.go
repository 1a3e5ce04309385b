package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/models"
	"github.com/alphafinance/backend/pkg/helpers"
)

// --- fakes ---

type fakeItemStore struct {
	item     *models.Item
	token    string
	tokenErr error
}

func (f *fakeItemStore) Latest(ctx context.Context, uid string) (*models.Item, error) {
	if f.item == nil {
		return nil, errs.NewNotLinkedError("no linked bank account")
	}
	return f.item, nil
}

func (f *fakeItemStore) Token(ctx context.Context, item *models.Item) (string, error) {
	return f.token, f.tokenErr
}

type fakeReconciler struct {
	count  int
	err    error
	calls  int
	tokens []string
}

func (f *fakeReconciler) Reconcile(ctx context.Context, uid, itemID, accessToken string) (int, error) {
	f.calls++
	f.tokens = append(f.tokens, accessToken)
	return f.count, f.err
}

type fakeIngestor struct {
	count  int
	err    error
	calls  int
	starts []string
	ends   []string
	uids   []string
}

func (f *fakeIngestor) Ingest(ctx context.Context, uid, accessToken, startDate, endDate string) (int, error) {
	f.calls++
	f.uids = append(f.uids, uid)
	f.starts = append(f.starts, startDate)
	f.ends = append(f.ends, endDate)
	return f.count, f.err
}

type fakeEvaluator struct {
	alerts []models.BudgetAlert
	err    error
	calls  int
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, uid string) ([]models.BudgetAlert, error) {
	f.calls++
	return f.alerts, f.err
}

// --- tests ---

func TestSyncRunsFullPipeline(t *testing.T) {
	items := &fakeItemStore{item: &models.Item{ItemID: "item-1"}, token: "at-1"}
	rec := &fakeReconciler{count: 3}
	ing := &fakeIngestor{count: 12}
	eval := &fakeEvaluator{alerts: []models.BudgetAlert{{AlertID: "a1"}}}

	svc := NewSyncService(items, rec, ing, eval)
	svc.clockNow = func() time.Time { return time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC) }

	result, err := svc.Sync(helpers.TestCtx(), "uid-1")
	if err != nil {
		t.Fatalf("sync error: %v", err)
	}
	if result.AccountsReconciled != 3 || result.TransactionsIngested != 12 || len(result.AlertsCreated) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if rec.tokens[0] != "at-1" {
		t.Fatalf("reconcile used token %q", rec.tokens[0])
	}
	if ing.starts[0] != "2025-01-16" || ing.ends[0] != "2025-02-15" {
		t.Fatalf("unexpected window: %s..%s", ing.starts[0], ing.ends[0])
	}
}

func TestSyncFailsWhenNotLinked(t *testing.T) {
	svc := NewSyncService(&fakeItemStore{}, &fakeReconciler{}, &fakeIngestor{}, &fakeEvaluator{})

	_, err := svc.Sync(helpers.TestCtx(), "uid-1")
	var nle *errs.NotLinkedError
	if !errors.As(err, &nle) {
		t.Fatalf("expected NotLinkedError, got %v", err)
	}
}

func TestSyncStopsAtTokenDecryptFailure(t *testing.T) {
	items := &fakeItemStore{
		item:     &models.Item{ItemID: "item-1"},
		tokenErr: errs.NewEncryptionError("credential decryption failed", errors.New("kms")),
	}
	rec := &fakeReconciler{}
	svc := NewSyncService(items, rec, &fakeIngestor{}, &fakeEvaluator{})

	_, err := svc.Sync(helpers.TestCtx(), "uid-1")
	var ee *errs.EncryptionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected EncryptionError, got %v", err)
	}
	if rec.calls != 0 {
		t.Fatal("reconcile should not run without a token")
	}
}

func TestSyncStopsAtReconcileFailure(t *testing.T) {
	items := &fakeItemStore{item: &models.Item{ItemID: "item-1"}, token: "at-1"}
	rec := &fakeReconciler{err: errs.NewProviderError("upstream down", true, nil)}
	ing := &fakeIngestor{}
	svc := NewSyncService(items, rec, ing, &fakeEvaluator{})

	_, err := svc.Sync(helpers.TestCtx(), "uid-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if ing.calls != 0 {
		t.Fatal("ingest should not run after reconcile failure")
	}
}

func TestSyncAllContinuesPastFailures(t *testing.T) {
	// uid-1 has no linked item, uid-2 syncs fine.
	items := &selectiveItemStore{linked: map[string]bool{"uid-2": true}}
	ing := &fakeIngestor{count: 1}
	svc := NewSyncService(items, &fakeReconciler{}, ing, &fakeEvaluator{})

	now := time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC)
	svc.SyncAll(helpers.TestCtx(), now, []string{"uid-1", "uid-2"})
	if len(ing.uids) != 1 || ing.uids[0] != "uid-2" {
		t.Fatalf("expected only uid-2 ingested, got %v", ing.uids)
	}
	// The whole sweep shares the reference time it was given.
	if ing.ends[0] != "2025-02-15" {
		t.Fatalf("window end = %s, want the sweep's reference date", ing.ends[0])
	}
}

type selectiveItemStore struct {
	linked map[string]bool
}

func (f *selectiveItemStore) Latest(ctx context.Context, uid string) (*models.Item, error) {
	if !f.linked[uid] {
		return nil, errs.NewNotLinkedError("no linked bank account")
	}
	return &models.Item{ItemID: "item-" + uid}, nil
}

func (f *selectiveItemStore) Token(ctx context.Context, item *models.Item) (string, error) {
	return "at", nil
}
