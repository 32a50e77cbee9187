package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/config"
)

// Collection names.
const (
	ContactsCollection = "customer_contacts"
	CallLogsCollection = "call_logs"
	SystemCollection   = "system"
	KpiTargetsDoc      = "kpi_targets"
)

const (
	userAgent   = "salesboard-api"
	pingTimeout = 5 * time.Second
)

// New opens a client for FIREBASE_PROJECT_ID with the shared Google service
// account. The second return names the credential source ("base64" or "file").
func New(ctx context.Context, cfg config.Config) (*firestore.Client, string, error) {
	creds, source, err := cfg.GoogleCredentialsJSON()
	if err != nil {
		return nil, "", err
	}
	client, err := firestore.NewClient(ctx, cfg.FirebaseProjectID,
		option.WithCredentialsJSON(creds),
		option.WithUserAgent(userAgent),
	)
	if err != nil {
		return nil, source, fmt.Errorf("open firestore %s: %w", cfg.FirebaseProjectID, err)
	}
	return client, source, nil
}

// Ping reads the KPI targets document. A missing document still proves the
// project is reachable and the credentials are accepted.
func Ping(ctx context.Context, client *firestore.Client) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	_, err := client.Collection(SystemCollection).Doc(KpiTargetsDoc).Get(ctx)
	if err == nil || status.Code(err) == codes.NotFound {
		return nil
	}
	return fmt.Errorf("firestore ping: %w", err)
}
