package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/models"
)

type budgetStore struct {
	client *firestore.Client
}

func NewBudgetStore(client *firestore.Client) *budgetStore {
	return &budgetStore{client: client}
}

func (s *budgetStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("budgets")
}

func (s *budgetStore) Create(ctx context.Context, uid string, b *models.Budget) error {
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	_, err := s.collection(uid).Doc(b.BudgetID).Create(ctx, b)
	if err != nil {
		return errs.NewStorageError("create", "failed to create budget", err)
	}
	return nil
}

func (s *budgetStore) Get(ctx context.Context, uid, budgetID string) (*models.Budget, error) {
	doc, err := s.collection(uid).Doc(budgetID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("budget not found")
		}
		return nil, errs.NewStorageError("read", "failed to get budget", err)
	}
	var b models.Budget
	if err := doc.DataTo(&b); err != nil {
		return nil, errs.NewStorageError("read", "failed to parse budget data", err)
	}
	return &b, nil
}

func (s *budgetStore) List(ctx context.Context, uid string) ([]*models.Budget, error) {
	docs, err := s.collection(uid).OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewStorageError("read", "failed to list budgets", err)
	}
	return docsToBudgets(docs)
}

func (s *budgetStore) ListRecurring(ctx context.Context, uid string) ([]*models.Budget, error) {
	docs, err := s.collection(uid).Where("isRecurring", "==", true).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewStorageError("read", "failed to list recurring budgets", err)
	}
	return docsToBudgets(docs)
}

// ListRecurringEndingOn returns recurring budgets whose window closes on the
// given date, the roll-forward candidates.
func (s *budgetStore) ListRecurringEndingOn(ctx context.Context, uid, date string) ([]*models.Budget, error) {
	docs, err := s.collection(uid).
		Where("isRecurring", "==", true).
		Where("endDate", "==", date).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewStorageError("read", "failed to list budgets ending on date", err)
	}
	return docsToBudgets(docs)
}

func (s *budgetStore) Update(ctx context.Context, uid string, b *models.Budget) error {
	b.UpdatedAt = time.Now()
	_, err := s.collection(uid).Doc(b.BudgetID).Set(ctx, b)
	if err != nil {
		return errs.NewStorageError("update", "failed to update budget", err)
	}
	return nil
}

// SetSpending refreshes the derived spend cache on a budget.
func (s *budgetStore) SetSpending(ctx context.Context, uid, budgetID string, spending float64) error {
	_, err := s.collection(uid).Doc(budgetID).Update(ctx, []firestore.Update{
		{Path: "currentSpending", Value: spending},
		{Path: "updatedAt", Value: time.Now()},
	})
	if status.Code(err) == codes.NotFound {
		return errs.NewNotFoundError("budget not found")
	}
	if err != nil {
		return errs.NewStorageError("update", "failed to update budget spending", err)
	}
	return nil
}

func (s *budgetStore) Delete(ctx context.Context, uid, budgetID string) error {
	_, err := s.collection(uid).Doc(budgetID).Delete(ctx)
	if err != nil {
		return errs.NewStorageError("delete", "failed to delete budget", err)
	}
	return nil
}

func docsToBudgets(docs []*firestore.DocumentSnapshot) ([]*models.Budget, error) {
	budgets := make([]*models.Budget, 0, len(docs))
	for _, d := range docs {
		var b models.Budget
		if err := d.DataTo(&b); err != nil {
			return nil, errs.NewStorageError("read", "failed to parse budget data", err)
		}
		budgets = append(budgets, &b)
	}
	return budgets, nil
}
