package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/interfaces"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = interfaces.ErrNotFound

type Firestore struct {
	client     *firestore.Client
	databaseID string
	assessment *assessmentRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.assessment.collectionPrefix = prefix
	}
}

// WithDatabaseID selects a named database instead of "(default)"
func WithDatabaseID(databaseID string) Option {
	return func(f *Firestore) {
		f.databaseID = databaseID
	}
}

func New(ctx context.Context, projectID string, opts ...Option) (*Firestore, error) {
	f := &Firestore{
		databaseID: firestore.DefaultDatabaseID,
		assessment: &assessmentRepository{},
	}
	for _, opt := range opts {
		opt(f)
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, f.databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", f.databaseID))
	}
	f.client = client
	f.assessment.client = client

	return f, nil
}

func (f *Firestore) Assessment() interfaces.AssessmentRepository {
	return f.assessment
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
