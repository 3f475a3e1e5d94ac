package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/treelayout/pkg/errors"
	"github.com/matzehuels/treelayout/pkg/hierarchy"
)

// Defaults for [MongoConfig].
const (
	DefaultDatabase   = "treelayout"
	DefaultCollection = "trees"
)

// MongoConfig configures [NewMongoStore].
type MongoConfig struct {
	URI        string
	Database   string // DefaultDatabase when empty
	Collection string // DefaultCollection when empty
	Timeout    time.Duration
}

// MongoStore persists trees in a MongoDB collection, one document per tree
// with a unique index on (run_id, root).
type MongoStore struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoStore connects, pings the server and ensures the index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "ping mongodb")
	}

	s := &MongoStore{
		client:  client,
		coll:    client.Database(cfg.Database).Collection(cfg.Collection),
		timeout: cfg.Timeout,
	}
	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "root", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "create index")
	}
	return s, nil
}

// SaveForest implements [Store]. A run with no successful tree writes
// nothing.
func (s *MongoStore) SaveForest(ctx context.Context, runID string, f *hierarchy.Forest) error {
	docs := documents(runID, f, time.Now().UTC())
	if len(docs) == 0 {
		return nil
	}
	batch := make([]any, len(docs))
	for i := range docs {
		batch[i] = docs[i]
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.coll.InsertMany(ctx, batch); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "save run %s", runID)
	}
	return nil
}

// LoadTree implements [Store].
func (s *MongoStore) LoadTree(ctx context.Context, runID, root string) (*hierarchy.Tree, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc TreeDocument
	err := s.coll.FindOne(ctx, bson.M{"run_id": runID, "root": root}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "tree %q not found in run %s", root, runID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "load tree %q", root)
	}
	return doc.Tree(), nil
}

// Roots implements [Store].
func (s *MongoStore) Roots(ctx context.Context, runID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "position", Value: 1}}).
		SetProjection(bson.M{"root": 1})
	cur, err := s.coll.Find(ctx, bson.M{"run_id": runID}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "list run %s", runID)
	}
	defer cur.Close(ctx)

	var roots []string
	for cur.Next(ctx) {
		var doc struct {
			Root string `bson:"root"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode run %s", runID)
		}
		roots = append(roots, doc.Root)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "list run %s", runID)
	}
	if len(roots) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "run %s not found", runID)
	}
	return roots, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
