package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	fs "github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/firestore"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/util"
)

// ContactRepository handles Firestore read/write for customer contacts:
// manually created contacts and edits layered over sheet-sourced ones.
type ContactRepository struct {
	client *firestore.Client
}

func NewContactRepository(client *firestore.Client) *ContactRepository {
	return &ContactRepository{client: client}
}

// FetchAllMap loads all stored contacts keyed by ID.
func (r *ContactRepository) FetchAllMap(ctx context.Context) (map[string]model.Contact, error) {
	iter := r.client.Collection(fs.ContactsCollection).Documents(ctx)
	defer iter.Stop()
	result := make(map[string]model.Contact)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate contacts: %w", err)
		}
		var c model.Contact
		if err := doc.DataTo(&c); err != nil {
			return nil, fmt.Errorf("decode contact %s: %w", doc.Ref.ID, err)
		}
		if c.ID == "" {
			c.ID = doc.Ref.ID
		}
		result[c.ID] = c
	}
	return result, nil
}

// Upsert writes the whole contact document.
func (r *ContactRepository) Upsert(ctx context.Context, c model.Contact) (model.Contact, error) {
	c.ID = contactDocumentID(c)
	if _, err := r.client.Collection(fs.ContactsCollection).Doc(c.ID).Set(ctx, c); err != nil {
		return c, fmt.Errorf("upsert contact %s: %w", c.ID, err)
	}
	return c, nil
}

// UpdateFields merges the given fields into the contact document, creating
// it when missing. Last write wins.
func (r *ContactRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if id == "" {
		return fmt.Errorf("contact id is required")
	}
	data := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		data[k] = v
	}
	data["id"] = id
	if _, err := r.client.Collection(fs.ContactsCollection).Doc(id).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("update contact %s: %w", id, err)
	}
	return nil
}

func contactDocumentID(c model.Contact) string {
	if c.ID != "" {
		return c.ID
	}
	return util.HashContactKey(c.CustomerName, c.PhoneNumber)
}
