// Package mongodb implements the repository interfaces on MongoDB.
//
// One Store owns the client and both collections. Ids are ObjectID hex
// strings generated at insert time and stored as the document _id, so the
// model layer never sees driver types.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store wraps a MongoDB database with the collections this app uses.
type Store struct {
	client    *mongo.Client
	users     *mongo.Collection
	campsites *mongo.Collection
}

// New connects to MongoDB, pings it, and ensures the indexes the data model
// relies on: a unique index on username, and a sparse unique index on
// facebook_id (sparse because local-only accounts have no facebook_id at
// all, and two missing values must not collide).
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connecting: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb: pinging: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client:    client,
		users:     db.Collection("users"),
		campsites: db.Collection("campsites"),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "facebook_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("mongodb: creating user indexes: %w", err)
	}
	return nil
}

// Close disconnects the underlying client. Called during graceful shutdown.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongodb: disconnecting: %w", err)
	}
	return nil
}
