package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	fs "github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/firestore"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
)

// TargetsRepository manages the system/kpi_targets singleton document.
type TargetsRepository struct {
	client *firestore.Client
}

func NewTargetsRepository(client *firestore.Client) *TargetsRepository {
	return &TargetsRepository{client: client}
}

func (r *TargetsRepository) SaveTargets(ctx context.Context, targets model.KpiTargets) error {
	if targets.LastUpdated.IsZero() {
		targets.LastUpdated = time.Now().UTC()
	}
	ref := r.client.Collection(fs.SystemCollection).Doc(fs.KpiTargetsDoc)
	if _, err := ref.Set(ctx, targets); err != nil {
		return fmt.Errorf("save kpi targets: %w", err)
	}
	return nil
}

// GetTargets returns the stored overrides. A missing document is not an
// error; it means no overrides.
func (r *TargetsRepository) GetTargets(ctx context.Context) (model.KpiTargets, error) {
	ref := r.client.Collection(fs.SystemCollection).Doc(fs.KpiTargetsDoc)
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return model.KpiTargets{}, nil
	}
	if err != nil {
		return model.KpiTargets{}, fmt.Errorf("get kpi targets: %w", err)
	}
	var targets model.KpiTargets
	if err := snap.DataTo(&targets); err != nil {
		return model.KpiTargets{}, fmt.Errorf("decode kpi targets: %w", err)
	}
	return targets, nil
}
