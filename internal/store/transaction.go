package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/alphafinance/backend/internal/dto"
	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/models"
)

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("transactions")
}

// Existing reports which of the given provider transaction IDs already have
// a stored row. Provider IDs double as document IDs, so this is a batched
// key lookup rather than a query.
func (s *transactionStore) Existing(ctx context.Context, uid string, providerIDs []string) (map[string]struct{}, error) {
	if len(providerIDs) == 0 {
		return map[string]struct{}{}, nil
	}

	coll := s.collection(uid)
	refs := make([]*firestore.DocumentRef, len(providerIDs))
	for i, id := range providerIDs {
		refs[i] = coll.Doc(id)
	}

	snaps, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errs.NewStorageError("read", "failed to check existing transactions", err)
	}

	existing := make(map[string]struct{})
	for _, snap := range snaps {
		if snap.Exists() {
			existing[snap.Ref.ID] = struct{}{}
		}
	}
	return existing, nil
}

// CreateBatch stores all rows in a single transaction. Create (not Set) is
// used so a row that appeared since the dedup check aborts the whole batch
// instead of silently overwriting.
func (s *transactionStore) CreateBatch(ctx context.Context, uid string, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	coll := s.collection(uid)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, ftx *firestore.Transaction) error {
		now := time.Now()
		for i := range txs {
			t := txs[i]
			t.CreatedAt = now
			t.UpdatedAt = now
			if err := ftx.Create(coll.Doc(t.TransactionID), t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.NewStorageError("create", "transaction batch commit failed", err)
	}
	return nil
}

func (s *transactionStore) Create(ctx context.Context, uid string, t *models.Transaction) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := s.collection(uid).Doc(t.TransactionID).Create(ctx, t)
	if status.Code(err) == codes.AlreadyExists {
		return errs.NewAlreadyExistsError("transaction already exists")
	}
	if err != nil {
		return errs.NewStorageError("create", "failed to create transaction", err)
	}
	return nil
}

func (s *transactionStore) Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error) {
	doc, err := s.collection(uid).Doc(transactionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("transaction not found")
		}
		return nil, errs.NewStorageError("read", "failed to get transaction", err)
	}
	var t models.Transaction
	if err := doc.DataTo(&t); err != nil {
		return nil, errs.NewStorageError("read", "failed to parse transaction data", err)
	}
	return &t, nil
}

// Query streams matching transactions through the callback. Filters combine
// with AND; date filters require ordering by date first.
func (s *transactionStore) Query(ctx context.Context, uid string, q dto.TransactionQuery, fn func(*models.Transaction) error) error {
	query := s.collection(uid).Query
	if q.Category != nil {
		query = query.Where("category", "==", *q.Category)
	}
	if q.AccountID != nil {
		query = query.Where("accountId", "==", *q.AccountID)
	}
	if q.DateFrom != nil {
		query = query.Where("date", ">=", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("date", "<=", *q.DateTo)
	}

	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = "date"
	}
	dir := firestore.Asc
	if q.Desc {
		dir = firestore.Desc
	}
	query = query.OrderBy(orderBy, dir)
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return errs.NewStorageError("read", "transaction query failed", err)
		}
		var t models.Transaction
		if err := doc.DataTo(&t); err != nil {
			return errs.NewStorageError("read", "failed to parse transaction data", err)
		}
		if err := fn(&t); err != nil {
			return err
		}
	}
}

// SumByCategoryRange sums stored amounts (as stored, outflows negative) for
// a category within an inclusive date window.
func (s *transactionStore) SumByCategoryRange(ctx context.Context, uid, category, dateFrom, dateTo string) (float64, error) {
	var total float64
	err := s.Query(ctx, uid, dto.TransactionQuery{
		Category: &category,
		DateFrom: &dateFrom,
		DateTo:   &dateTo,
	}, func(t *models.Transaction) error {
		total += t.Amount
		return nil
	})
	return total, err
}

func (s *transactionStore) UpdateCategory(ctx context.Context, uid, transactionID, category string) error {
	_, err := s.collection(uid).Doc(transactionID).Update(ctx, []firestore.Update{
		{Path: "category", Value: category},
		{Path: "updatedAt", Value: time.Now()},
	})
	if status.Code(err) == codes.NotFound {
		return errs.NewNotFoundError("transaction not found")
	}
	if err != nil {
		return errs.NewStorageError("update", "failed to update transaction category", err)
	}
	return nil
}

// BulkUpdateCategory re-labels many rows at once. Rows that no longer exist
// are skipped; the count of updated rows is returned.
func (s *transactionStore) BulkUpdateCategory(ctx context.Context, uid string, transactionIDs []string, category string) (int, error) {
	if len(transactionIDs) == 0 {
		return 0, nil
	}

	coll := s.collection(uid)
	bw := s.client.BulkWriter(ctx)
	now := time.Now()

	jobs := make([]*firestore.BulkWriterJob, 0, len(transactionIDs))
	for _, id := range transactionIDs {
		job, err := bw.Update(coll.Doc(id), []firestore.Update{
			{Path: "category", Value: category},
			{Path: "updatedAt", Value: now},
		})
		if err != nil {
			bw.End()
			return 0, errs.NewStorageError("update", "failed to schedule category update", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	updated := 0
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			if status.Code(err) == codes.NotFound {
				continue
			}
			return updated, errs.NewStorageError("update", "bulk category update failed", err)
		}
		updated++
	}
	return updated, nil
}

// DeleteByAccount removes every transaction belonging to an account, used by
// the account-deletion cascade.
func (s *transactionStore) DeleteByAccount(ctx context.Context, uid, providerAccountID string) error {
	docs, err := s.collection(uid).Where("accountId", "==", providerAccountID).Documents(ctx).GetAll()
	if err != nil {
		return errs.NewStorageError("read", "failed to list account transactions", err)
	}
	if len(docs) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for _, d := range docs {
		job, err := bw.Delete(d.Ref)
		if err != nil {
			bw.End()
			return errs.NewStorageError("delete", "failed to schedule transaction delete", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return errs.NewStorageError("delete", "failed to delete account transactions", err)
		}
	}
	return nil
}
