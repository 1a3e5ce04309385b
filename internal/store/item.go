package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/models"
)

// tokenCipher hides the KMS client behind the two calls the item store needs.
type tokenCipher interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

type itemStore struct {
	client *firestore.Client
	cipher tokenCipher
}

func NewItemStore(client *firestore.Client, cipher tokenCipher) *itemStore {
	return &itemStore{client: client, cipher: cipher}
}

func (s *itemStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("items")
}

// Create encrypts the access token before it is written. Plaintext tokens
// never reach Firestore.
func (s *itemStore) Create(ctx context.Context, uid string, item *models.Item, accessToken string) error {
	encrypted, err := s.cipher.Encrypt(ctx, accessToken)
	if err != nil {
		return err
	}
	item.EncryptedToken = encrypted
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	if _, err := s.collection(uid).Doc(item.ItemID).Create(ctx, item); err != nil {
		return errs.NewStorageError("create", "failed to create item", err)
	}
	return nil
}

// Latest returns the most recently linked item, or NotLinkedError when the
// user has no linked institution.
func (s *itemStore) Latest(ctx context.Context, uid string) (*models.Item, error) {
	iter := s.collection(uid).OrderBy("createdAt", firestore.Desc).Limit(1).Documents(ctx)
	defer iter.Stop()
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errs.NewNotLinkedError("no linked bank account")
	}
	if err != nil {
		return nil, errs.NewStorageError("read", "failed to get latest item", err)
	}
	var item models.Item
	if err := doc.DataTo(&item); err != nil {
		return nil, errs.NewStorageError("read", "failed to parse item data", err)
	}
	return &item, nil
}

func (s *itemStore) List(ctx context.Context, uid string) ([]*models.Item, error) {
	docs, err := s.collection(uid).OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewStorageError("read", "failed to list items", err)
	}
	items := make([]*models.Item, 0, len(docs))
	for _, d := range docs {
		var item models.Item
		if err := d.DataTo(&item); err != nil {
			return nil, errs.NewStorageError("read", "failed to parse item data", err)
		}
		items = append(items, &item)
	}
	return items, nil
}

// Token decrypts the stored access token for provider calls.
func (s *itemStore) Token(ctx context.Context, item *models.Item) (string, error) {
	return s.cipher.Decrypt(ctx, item.EncryptedToken)
}

func (s *itemStore) SetStatus(ctx context.Context, uid, itemID, status string) error {
	_, err := s.collection(uid).Doc(itemID).Update(ctx, []firestore.Update{
		{Path: "status", Value: status},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return errs.NewStorageError("update", "failed to update item status", err)
	}
	return nil
}
