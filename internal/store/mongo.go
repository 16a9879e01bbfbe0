package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/mongo-crud-api/internal/model"
)

// DefaultConnectTimeout bounds server selection and the startup ping.
const DefaultConnectTimeout = 10 * time.Second

// MongoConfig holds the settings needed to reach the collection.
type MongoConfig struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

// collection is the subset of *mongo.Collection used by MongoStore.
type collection interface {
	InsertOne(ctx context.Context, document interface{},
		opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	Find(ctx context.Context, filter interface{},
		opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter interface{},
		opts ...*options.FindOneOptions) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter interface{}, update interface{},
		opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{},
		opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// client is the subset of *mongo.Client used by MongoStore.
type client interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
	Disconnect(ctx context.Context) error
}

// MongoStore implements Store on top of a single MongoDB collection.
type MongoStore struct {
	client client
	coll   collection
	logger *zap.Logger
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig, logger *zap.Logger) (*MongoStore, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetMonitor(newCommandMonitor(logger))

	mc, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := mc.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = mc.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	logger.Info("connected to mongo",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection),
	)

	coll := mc.Database(cfg.Database).Collection(cfg.Collection)
	return newMongoStore(mc, coll, logger), nil
}

func newMongoStore(c client, coll collection, logger *zap.Logger) *MongoStore {
	return &MongoStore{
		client: c,
		coll:   coll,
		logger: logger,
	}
}

// List returns every document of the collection.
func (s *MongoStore) List(ctx context.Context) ([]model.Document, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("list items: decoding cursor: %w", err)
	}

	docs := make([]model.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, model.FromBSON(m))
	}

	return docs, nil
}

// Get retrieves a document by its ID.
func (s *MongoStore) Get(ctx context.Context, id string) (model.Document, error) {
	oid, err := model.ParseID(id)
	if err != nil {
		return nil, err
	}

	var raw bson.M
	if err := s.coll.FindOne(ctx, bson.M{model.IDField: oid}).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	return model.FromBSON(raw), nil
}

// Create inserts the document and returns the ObjectID assigned to it.
func (s *MongoStore) Create(ctx context.Context, doc model.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("create item: %w", ErrNilItem)
	}

	res, err := s.coll.InsertOne(ctx, toBSON(doc))
	if err != nil {
		return "", fmt.Errorf("create item: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("create item: unexpected id type %T", res.InsertedID)
	}

	return oid.Hex(), nil
}

// Update applies $set with the given fields to an existing document.
func (s *MongoStore) Update(ctx context.Context, id string, doc model.Document) error {
	oid, err := model.ParseID(id)
	if err != nil {
		return err
	}

	if doc == nil {
		return fmt.Errorf("update item: %w", ErrNilItem)
	}

	filter := bson.M{model.IDField: oid}
	set := toBSON(doc)

	// MongoDB rejects an empty $set; only existence decides the outcome.
	if len(set) == 0 {
		return s.exists(ctx, filter)
	}

	res, err := s.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a document by its ID.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := model.ParseID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{model.IDField: oid})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// Ping checks that the primary is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	s.logger.Info("disconnected from mongo")
	return nil
}

func (s *MongoStore) exists(ctx context.Context, filter bson.M) error {
	opts := options.FindOne().SetProjection(bson.M{model.IDField: 1})

	var raw bson.M
	if err := s.coll.FindOne(ctx, filter, opts).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("update item: %w", err)
	}

	return nil
}

// toBSON copies doc into a bson.M without the identifier field.
func toBSON(doc model.Document) bson.M {
	m := make(bson.M, len(doc))
	for k, v := range doc {
		if k == model.IDField {
			continue
		}
		m[k] = v
	}
	return m
}
