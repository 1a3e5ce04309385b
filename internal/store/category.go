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

type categoryStore struct {
	client *firestore.Client
}

func NewCategoryStore(client *firestore.Client) *categoryStore {
	return &categoryStore{client: client}
}

func (s *categoryStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("custom_categories")
}

// List returns custom categories in creation order so keyword matching
// stays deterministic across calls.
func (s *categoryStore) List(ctx context.Context, uid string) ([]*models.CustomCategory, error) {
	docs, err := s.collection(uid).OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewStorageError("read", "failed to list custom categories", err)
	}
	categories := make([]*models.CustomCategory, 0, len(docs))
	for _, d := range docs {
		var c models.CustomCategory
		if err := d.DataTo(&c); err != nil {
			return nil, errs.NewStorageError("read", "failed to parse category data", err)
		}
		categories = append(categories, &c)
	}
	return categories, nil
}

func (s *categoryStore) Create(ctx context.Context, uid string, category *models.CustomCategory) error {
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}
	_, err := s.collection(uid).Doc(category.Name).Create(ctx, category)
	if status.Code(err) == codes.AlreadyExists {
		return errs.NewAlreadyExistsError("category already exists")
	}
	if err != nil {
		return errs.NewStorageError("create", "failed to create custom category", err)
	}
	return nil
}

// AddKeyword appends a keyword to the named category, creating the category
// when it does not exist yet. Duplicate keywords are dropped.
func (s *categoryStore) AddKeyword(ctx context.Context, uid, name, keyword string) error {
	ref := s.collection(uid).Doc(name)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return tx.Set(ref, &models.CustomCategory{
				Name:      name,
				Keywords:  []string{keyword},
				CreatedAt: time.Now(),
			})
		}
		if err != nil {
			return err
		}
		var c models.CustomCategory
		if err := doc.DataTo(&c); err != nil {
			return err
		}
		for _, k := range c.Keywords {
			if k == keyword {
				return nil
			}
		}
		c.Keywords = append(c.Keywords, keyword)
		return tx.Set(ref, &c)
	})
	if err != nil {
		return errs.NewStorageError("update", "failed to add category keyword", err)
	}
	return nil
}
