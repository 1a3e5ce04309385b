package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alphafinance/backend/internal/dto"
	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/models"
	"github.com/alphafinance/backend/pkg/helpers"
)

// --- fakes ---

type fakeTxStore struct {
	txs       []*models.Transaction
	updated   map[string]string
	bulkCount int
	deletedBy []string
}

func (f *fakeTxStore) Query(ctx context.Context, uid string, q dto.TransactionQuery, fn func(*models.Transaction) error) error {
	for _, t := range f.txs {
		if q.Category != nil && t.Category != *q.Category {
			continue
		}
		if err := fn(t); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeTxStore) Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error) {
	for _, t := range f.txs {
		if t.TransactionID == transactionID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, errs.NewNotFoundError("transaction not found")
}

func (f *fakeTxStore) Create(ctx context.Context, uid string, t *models.Transaction) error {
	f.txs = append(f.txs, t)
	return nil
}

func (f *fakeTxStore) UpdateCategory(ctx context.Context, uid, transactionID, category string) error {
	if f.updated == nil {
		f.updated = map[string]string{}
	}
	f.updated[transactionID] = category
	return nil
}

func (f *fakeTxStore) BulkUpdateCategory(ctx context.Context, uid string, transactionIDs []string, category string) (int, error) {
	f.bulkCount = len(transactionIDs)
	return f.bulkCount, nil
}

func (f *fakeTxStore) DeleteByAccount(ctx context.Context, uid, providerAccountID string) error {
	f.deletedBy = append(f.deletedBy, providerAccountID)
	return nil
}

type fakeAccountCRUDStore struct {
	accounts map[string]*models.Account
	deltas   map[string]float64
	deleted  []string
}

func (f *fakeAccountCRUDStore) Get(ctx context.Context, uid, providerAccountID string) (*models.Account, error) {
	a, ok := f.accounts[providerAccountID]
	if !ok {
		return nil, errs.NewNotFoundError("account not found")
	}
	return a, nil
}

func (f *fakeAccountCRUDStore) Delete(ctx context.Context, uid, providerAccountID string) error {
	f.deleted = append(f.deleted, providerAccountID)
	return nil
}

func (f *fakeAccountCRUDStore) AdjustBalance(ctx context.Context, uid, providerAccountID string, delta float64) error {
	if f.deltas == nil {
		f.deltas = map[string]float64{}
	}
	f.deltas[providerAccountID] += delta
	return nil
}

type fakeLearner struct {
	resolved string
	learned  []string
}

func (f *fakeLearner) Resolve(ctx context.Context, uid, transactionName string) string {
	return f.resolved
}

func (f *fakeLearner) Learn(ctx context.Context, uid, category, transactionName string) error {
	f.learned = append(f.learned, category+"|"+transactionName)
	return nil
}

// --- tests ---

func manualTxService(txs *fakeTxStore, accounts *fakeAccountCRUDStore, learner *fakeLearner) *transactionService {
	svc := NewTransactionService(txs, accounts, learner, &fakeEvaluator{})
	svc.clockNow = func() time.Time { return time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestListPagesFilteredSet(t *testing.T) {
	txs := &fakeTxStore{}
	for i := 0; i < 45; i++ {
		txs.txs = append(txs.txs, &models.Transaction{TransactionID: string(rune('a' + i)), Category: "Food"})
	}
	svc := manualTxService(txs, &fakeAccountCRUDStore{}, &fakeLearner{})

	page, err := svc.List(helpers.TestCtx(), "uid-1", dto.TransactionQuery{Category: helpers.Ptr("Food")}, 3, 20)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if page.Total != 45 || page.Pages != 3 || page.Page != 3 {
		t.Fatalf("unexpected paging: %+v", page)
	}
	if len(page.Transactions) != 5 {
		t.Fatalf("last page has %d rows, want 5", len(page.Transactions))
	}
}

func TestListPageBeyondEndIsEmpty(t *testing.T) {
	txs := &fakeTxStore{txs: []*models.Transaction{{TransactionID: "t1"}}}
	svc := manualTxService(txs, &fakeAccountCRUDStore{}, &fakeLearner{})

	page, err := svc.List(helpers.TestCtx(), "uid-1", dto.TransactionQuery{}, 5, 10)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(page.Transactions) != 0 || page.Total != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestAddManualAutoCategorizesAndAdjustsBalance(t *testing.T) {
	txs := &fakeTxStore{}
	accounts := &fakeAccountCRUDStore{accounts: map[string]*models.Account{
		"acc-1": {ProviderAccountID: "acc-1", Balance: 100},
	}}
	learner := &fakeLearner{resolved: "Food"}
	svc := manualTxService(txs, accounts, learner)

	tx, alerts, err := svc.AddManual(helpers.TestCtx(), "uid-1", dto.AddTransactionArgs{
		AccountID: "acc-1",
		Name:      "corner cafe",
		Amount:    -9.75,
	})
	if err != nil {
		t.Fatalf("add error: %v", err)
	}
	if tx.Category != "Food" {
		t.Fatalf("category = %q, want auto-resolved Food", tx.Category)
	}
	if tx.Date != "2025-04-10" {
		t.Fatalf("date = %q, want clock default", tx.Date)
	}
	if tx.TransactionID == "" {
		t.Fatal("expected a generated transaction id")
	}
	if got := accounts.deltas["acc-1"]; got != -9.75 {
		t.Fatalf("balance delta = %v, want -9.75", got)
	}
	if alerts == nil {
		t.Log("no alerts created")
	}
}

func TestAddManualRejectsUnknownAccount(t *testing.T) {
	svc := manualTxService(&fakeTxStore{}, &fakeAccountCRUDStore{}, &fakeLearner{})

	_, _, err := svc.AddManual(helpers.TestCtx(), "uid-1", dto.AddTransactionArgs{
		AccountID: "ghost",
		Name:      "somewhere",
		Amount:    -1,
	})
	var nfe *errs.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestAddManualValidation(t *testing.T) {
	svc := manualTxService(&fakeTxStore{}, &fakeAccountCRUDStore{}, &fakeLearner{})

	cases := []dto.AddTransactionArgs{
		{Name: "no account", Amount: -1},
		{AccountID: "acc-1", Amount: -1},
		{AccountID: "acc-1", Name: "bad date", Amount: -1, Date: "10/04/2025"},
	}
	for _, args := range cases {
		_, _, err := svc.AddManual(helpers.TestCtx(), "uid-1", args)
		var ve *errs.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("args %+v: expected ValidationError, got %v", args, err)
		}
	}
}

func TestUpdateCategoryLearnsTransactionName(t *testing.T) {
	txs := &fakeTxStore{txs: []*models.Transaction{
		{TransactionID: "t1", Name: "JOE'S DINER #22", Category: "Uncategorized"},
	}}
	learner := &fakeLearner{}
	svc := manualTxService(txs, &fakeAccountCRUDStore{}, learner)

	tx, err := svc.UpdateCategory(helpers.TestCtx(), "uid-1", "t1", "Dining Out")
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if tx.Category != "Dining Out" {
		t.Fatalf("category = %q", tx.Category)
	}
	if txs.updated["t1"] != "Dining Out" {
		t.Fatal("store update not applied")
	}
	if len(learner.learned) != 1 || learner.learned[0] != "Dining Out|JOE'S DINER #22" {
		t.Fatalf("unexpected learn calls: %v", learner.learned)
	}
}

func TestBulkUpdateCategoryValidation(t *testing.T) {
	svc := manualTxService(&fakeTxStore{}, &fakeAccountCRUDStore{}, &fakeLearner{})

	if _, err := svc.BulkUpdateCategory(helpers.TestCtx(), "uid-1", nil, "Food"); err == nil {
		t.Fatal("expected error for empty id list")
	}
	if _, err := svc.BulkUpdateCategory(helpers.TestCtx(), "uid-1", []string{"t1"}, ""); err == nil {
		t.Fatal("expected error for empty category")
	}

	txs := &fakeTxStore{}
	svc = manualTxService(txs, &fakeAccountCRUDStore{}, &fakeLearner{})
	n, err := svc.BulkUpdateCategory(helpers.TestCtx(), "uid-1", []string{"t1", "t2"}, "Food")
	if err != nil || n != 2 {
		t.Fatalf("bulk update = %d, %v", n, err)
	}
}

func TestDeleteAccountCascadesTransactions(t *testing.T) {
	txs := &fakeTxStore{}
	accounts := &fakeAccountCRUDStore{accounts: map[string]*models.Account{
		"acc-1": {ProviderAccountID: "acc-1"},
	}}
	svc := manualTxService(txs, accounts, &fakeLearner{})

	if err := svc.DeleteAccount(helpers.TestCtx(), "uid-1", "acc-1"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if len(txs.deletedBy) != 1 || txs.deletedBy[0] != "acc-1" {
		t.Fatalf("transactions not cascaded: %v", txs.deletedBy)
	}
	if len(accounts.deleted) != 1 {
		t.Fatal("account not deleted")
	}

	if err := svc.DeleteAccount(helpers.TestCtx(), "uid-1", "ghost"); err == nil {
		t.Fatal("expected error for unknown account")
	}
}
