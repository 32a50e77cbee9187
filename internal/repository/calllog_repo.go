package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	fs "github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/firestore"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
)

// CallLogRepository stores agent call logs.
type CallLogRepository struct {
	client *firestore.Client
}

func NewCallLogRepository(client *firestore.Client) *CallLogRepository {
	return &CallLogRepository{client: client}
}

// Create stores a call log, assigning an ID when missing.
func (r *CallLogRepository) Create(ctx context.Context, log model.CallLog) (model.CallLog, error) {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	ref := r.client.Collection(fs.CallLogsCollection).Doc(log.ID)
	if _, err := ref.Set(ctx, log); err != nil {
		return log, fmt.Errorf("create call log %s: %w", log.ID, err)
	}
	return log, nil
}

// ListByDate returns the logs of one clinic-local day (YYYY-MM-DD).
func (r *CallLogRepository) ListByDate(ctx context.Context, date string) ([]model.CallLog, error) {
	iter := r.client.Collection(fs.CallLogsCollection).Where("date", "==", date).Documents(ctx)
	defer iter.Stop()
	var out []model.CallLog
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate call logs %s: %w", date, err)
		}
		var l model.CallLog
		if err := doc.DataTo(&l); err != nil {
			return nil, fmt.Errorf("decode call log %s: %w", doc.Ref.ID, err)
		}
		if l.ID == "" {
			l.ID = doc.Ref.ID
		}
		out = append(out, l)
	}
	return out, nil
}
