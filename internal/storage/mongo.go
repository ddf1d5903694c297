package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const mongoTimeout = 10 * time.Second

// MongoConfig captures the settings for a MongoDB backed storage
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type mongoObject struct {
	Key         string    `bson:"_id"`
	ContentType string    `bson:"content_type"`
	Data        []byte    `bson:"data"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// MongoStorage keeps each object as one document keyed by _id
type MongoStorage struct {
	client *mongo.Client
	col    *mongo.Collection
	logger *zap.Logger
}

// NewMongoStorage connects to MongoDB and verifies connectivity with a ping
func NewMongoStorage(ctx context.Context, cfg MongoConfig, logger *zap.Logger) (*MongoStorage, error) {
	connectCtx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("MongoDB storage initialized",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection),
	)

	return &MongoStorage{
		client: client,
		col:    client.Database(cfg.Database).Collection(cfg.Collection),
		logger: logger,
	}, nil
}

func (s *MongoStorage) Upload(ctx context.Context, key string, contentType string, data io.Reader) (int64, error) {
	payload, err := io.ReadAll(data)
	if err != nil {
		return 0, fmt.Errorf("failed to read object: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	doc := mongoObject{
		Key:         key,
		ContentType: contentType,
		Data:        payload,
		UpdatedAt:   time.Now().UTC(),
	}
	_, err = s.col.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return 0, fmt.Errorf("mongo replace: %w", err)
	}
	return int64(len(payload)), nil
}

func (s *MongoStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	var doc mongoObject
	err := s.col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	return io.NopCloser(bytes.NewReader(doc.Data)), nil
}

func (s *MongoStorage) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

// Close disconnects the underlying client
func (s *MongoStorage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
