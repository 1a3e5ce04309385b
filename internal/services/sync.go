package services

import (
	"context"
	"sync"
	"time"

	"github.com/alphafinance/backend/internal/dto"
	"github.com/alphafinance/backend/internal/models"
	"github.com/alphafinance/backend/pkg/logger"
)

// syncWindowDays is the trailing window each sync pulls. Dedup makes the
// overlap between runs harmless.
const syncWindowDays = 30

// --- Dependencies (minimal interfaces scoped to this service) ---

type itemSSStore interface {
	Latest(ctx context.Context, uid string) (*models.Item, error)
	Token(ctx context.Context, item *models.Item) (string, error)
}

type accountReconciler interface {
	Reconcile(ctx context.Context, uid, itemID, accessToken string) (int, error)
}

type transactionIngestor interface {
	Ingest(ctx context.Context, uid, accessToken, startDate, endDate string) (int, error)
}

type alertEvaluator interface {
	Evaluate(ctx context.Context, uid string) ([]models.BudgetAlert, error)
}

type syncService struct {
	items      itemSSStore
	reconciler accountReconciler
	ingestor   transactionIngestor
	alerts     alertEvaluator
	clockNow   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSyncService(items itemSSStore, reconciler accountReconciler, ingestor transactionIngestor, alerts alertEvaluator) *syncService {
	return &syncService{
		items:      items,
		reconciler: reconciler,
		ingestor:   ingestor,
		alerts:     alerts,
		clockNow:   time.Now,
		locks:      map[string]*sync.Mutex{},
	}
}

// userLock serializes syncs per user. Concurrent syncs for different users
// are fine; two for the same user would race on the dedup check.
func (s *syncService) userLock(uid string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[uid]
	if !ok {
		l = &sync.Mutex{}
		s.locks[uid] = l
	}
	return l
}

// Sync runs the full pipeline for one user: reconcile accounts, ingest the
// trailing transaction window, evaluate budget alerts. Stops at the first
// stage failure; a completed stage's writes stay.
func (s *syncService) Sync(ctx context.Context, uid string) (dto.SyncResult, error) {
	return s.syncAt(ctx, uid, s.clockNow())
}

func (s *syncService) syncAt(ctx context.Context, uid string, now time.Time) (dto.SyncResult, error) {
	lock := s.userLock(uid)
	lock.Lock()
	defer lock.Unlock()

	result := dto.SyncResult{}

	item, err := s.items.Latest(ctx, uid)
	if err != nil {
		return result, err
	}
	token, err := s.items.Token(ctx, item)
	if err != nil {
		return result, err
	}

	reconciled, err := s.reconciler.Reconcile(ctx, uid, item.ItemID, token)
	if err != nil {
		return result, err
	}
	result.AccountsReconciled = reconciled

	startDate := now.AddDate(0, 0, -syncWindowDays).Format(dateLayout)
	endDate := now.Format(dateLayout)
	ingested, err := s.ingestor.Ingest(ctx, uid, token, startDate, endDate)
	if err != nil {
		return result, err
	}
	result.TransactionsIngested = ingested

	created, err := s.alerts.Evaluate(ctx, uid)
	if err != nil {
		return result, err
	}
	result.AlertsCreated = created

	logger.FromContext(ctx).Info("sync completed",
		"accounts", result.AccountsReconciled,
		"transactions", result.TransactionsIngested,
		"alerts", len(result.AlertsCreated))
	return result, nil
}

// SyncAll sweeps the given users against one shared reference time, so every
// sync in a sweep pulls the same trailing window. One user's failure is
// logged and does not stop the sweep.
func (s *syncService) SyncAll(ctx context.Context, now time.Time, uids []string) {
	log := logger.FromContext(ctx)
	for _, uid := range uids {
		if _, err := s.syncAt(ctx, uid, now); err != nil {
			log.Warn("user sync failed", "uid", uid, "error", err)
		}
	}
	log.Info("sync sweep finished", "users", len(uids))
}
