package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"call-analysis-go/internal/logger"
	"call-analysis-go/internal/types"
)

type inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// Mongo writes records into a MongoDB collection (also usable against the
// Cosmos DB Mongo API).
type Mongo struct {
	client *mongo.Client
	coll   inserter
}

// NewMongo connects and pings the server. The ping is retried with
// exponential backoff for up to connectTimeout so the process can start
// while the database is still coming up.
func NewMongo(ctx context.Context, uri, database, collection string, connectTimeout time.Duration, log *logger.Logger) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = connectTimeout
	ping := func() error {
		return client.Ping(ctx, readpref.Primary())
	}
	notify := func(err error, wait time.Duration) {
		log.WithError(err).WithField("retry_in", wait.String()).Warn("mongo ping failed")
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(bo, ctx), notify); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return &Mongo{client: client, coll: client.Database(database).Collection(collection)}, nil
}

func (m *Mongo) Save(ctx context.Context, rec types.AnalysisRecord) error {
	if _, err := m.coll.InsertOne(ctx, rec.Document()); err != nil {
		return fmt.Errorf("mongo: insert %s: %w", rec.RecordID, err)
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}
