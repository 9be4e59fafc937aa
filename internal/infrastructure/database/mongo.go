package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dronedeck/media-api/internal/config"
)

// Mongo wraps the document-store connection. One instance is created at
// startup and shared by reference for the life of the process.
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
	log        zerolog.Logger
}

// Connect establishes the MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Mongo, error) {
	logger := log.With().Str("component", "mongo").Logger()

	connectCtx, cancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info().Str("database", cfg.MongoDatabase).Str("collection", cfg.MongoCollection).Msg("connected to mongodb")

	return &Mongo{
		client:     client,
		collection: client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection),
		log:        logger,
	}, nil
}

// Collection returns the media collection handle.
func (m *Mongo) Collection() *mongo.Collection {
	return m.collection
}

// Ping verifies document-store connectivity, for health reporting.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	m.log.Info().Msg("disconnecting from mongodb")
	return m.client.Disconnect(ctx)
}
