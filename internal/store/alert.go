package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/models"
)

type alertStore struct {
	client *firestore.Client
}

func NewAlertStore(client *firestore.Client) *alertStore {
	return &alertStore{client: client}
}

func (s *alertStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("budget_alerts")
}

// CreateIfNone writes the alert only when no unread alert of the same type
// already exists for the budget. The check and write run in one transaction
// so concurrent evaluations cannot double-fire.
func (s *alertStore) CreateIfNone(ctx context.Context, uid string, alert *models.BudgetAlert) (bool, error) {
	created := false
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		created = false
		query := s.collection(uid).
			Where("budgetId", "==", alert.BudgetID).
			Where("alertType", "==", alert.AlertType).
			Where("isRead", "==", false).
			Limit(1)
		iter := tx.Documents(query)
		defer iter.Stop()
		_, err := iter.Next()
		if err == nil {
			return nil
		}
		if err != iterator.Done {
			return err
		}
		if alert.CreatedAt.IsZero() {
			alert.CreatedAt = time.Now()
		}
		if err := tx.Create(s.collection(uid).Doc(alert.AlertID), alert); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, errs.NewStorageError("create", "failed to create budget alert", err)
	}
	return created, nil
}

func (s *alertStore) ListUnread(ctx context.Context, uid string) ([]*models.BudgetAlert, error) {
	docs, err := s.collection(uid).
		Where("isRead", "==", false).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewStorageError("read", "failed to list unread alerts", err)
	}
	alerts := make([]*models.BudgetAlert, 0, len(docs))
	for _, d := range docs {
		var a models.BudgetAlert
		if err := d.DataTo(&a); err != nil {
			return nil, errs.NewStorageError("read", "failed to parse alert data", err)
		}
		alerts = append(alerts, &a)
	}
	return alerts, nil
}

func (s *alertStore) MarkRead(ctx context.Context, uid, alertID string) error {
	_, err := s.collection(uid).Doc(alertID).Update(ctx, []firestore.Update{
		{Path: "isRead", Value: true},
	})
	if status.Code(err) == codes.NotFound {
		return errs.NewNotFoundError("alert not found")
	}
	if err != nil {
		return errs.NewStorageError("update", "failed to mark alert read", err)
	}
	return nil
}

// DeleteByBudget removes all alerts attached to a budget, used when the
// budget itself is deleted.
func (s *alertStore) DeleteByBudget(ctx context.Context, uid, budgetID string) error {
	docs, err := s.collection(uid).Where("budgetId", "==", budgetID).Documents(ctx).GetAll()
	if err != nil {
		return errs.NewStorageError("read", "failed to query alerts for budget", err)
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
			return errs.NewStorageError("delete", "failed to enqueue alert delete", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return errs.NewStorageError("delete", "failed to delete alert", err)
		}
	}
	return nil
}
