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

type accountStore struct {
	client *firestore.Client
}

func NewAccountStore(client *firestore.Client) *accountStore {
	return &accountStore{client: client}
}

func (s *accountStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("accounts")
}

// UpsertAll writes one reconciliation pass atomically: either every account
// snapshot lands or none does. Existing documents keep their CreatedAt; all
// provider-authoritative fields are overwritten.
func (s *accountStore) UpsertAll(ctx context.Context, uid string, accounts []models.Account) error {
	if len(accounts) == 0 {
		return nil
	}

	coll := s.collection(uid)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		refs := make([]*firestore.DocumentRef, len(accounts))
		for i, a := range accounts {
			refs[i] = coll.Doc(a.ProviderAccountID)
		}
		snaps, err := tx.GetAll(refs)
		if err != nil {
			return err
		}

		now := time.Now()
		for i := range accounts {
			a := accounts[i]
			a.UpdatedAt = now
			a.CreatedAt = now
			if snaps[i].Exists() {
				var existing models.Account
				if err := snaps[i].DataTo(&existing); err != nil {
					return err
				}
				a.CreatedAt = existing.CreatedAt
			}
			if err := tx.Set(refs[i], a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.NewStorageError("upsert", "account reconciliation commit failed", err)
	}
	return nil
}

func (s *accountStore) List(ctx context.Context, uid string) ([]*models.Account, error) {
	docs, err := s.collection(uid).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewStorageError("read", "failed to list accounts", err)
	}
	accounts := make([]*models.Account, 0, len(docs))
	for _, d := range docs {
		var a models.Account
		if err := d.DataTo(&a); err != nil {
			return nil, errs.NewStorageError("read", "failed to parse account data", err)
		}
		accounts = append(accounts, &a)
	}
	return accounts, nil
}

func (s *accountStore) Get(ctx context.Context, uid, providerAccountID string) (*models.Account, error) {
	doc, err := s.collection(uid).Doc(providerAccountID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("account not found")
		}
		return nil, errs.NewStorageError("read", "failed to get account", err)
	}
	var a models.Account
	if err := doc.DataTo(&a); err != nil {
		return nil, errs.NewStorageError("read", "failed to parse account data", err)
	}
	return &a, nil
}

func (s *accountStore) Delete(ctx context.Context, uid, providerAccountID string) error {
	_, err := s.collection(uid).Doc(providerAccountID).Delete(ctx)
	if err != nil {
		return errs.NewStorageError("delete", "failed to delete account", err)
	}
	return nil
}

// AdjustBalance applies a delta to the stored balance in a transaction so a
// concurrent reconciliation pass cannot interleave.
func (s *accountStore) AdjustBalance(ctx context.Context, uid, providerAccountID string, delta float64) error {
	ref := s.collection(uid).Doc(providerAccountID)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var a models.Account
		if err := snap.DataTo(&a); err != nil {
			return err
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "balance", Value: a.Balance + delta},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("account not found")
		}
		return errs.NewStorageError("update", "failed to adjust account balance", err)
	}
	return nil
}
