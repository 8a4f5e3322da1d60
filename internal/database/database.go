package database

import (
	"context"
	"fmt"
	"time"

	"github.com/aicody-snippets/core/internal/config"
	"github.com/aicody-snippets/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Connect opens a MongoDB connection and returns a handle to the
// application database. The handle is passed down explicitly; nothing in
// this package holds global connection state.
func Connect(ctx context.Context, cfg *config.AppConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Mongo.DatabaseName()), nil
}

// EnsureIndexes declares the secondary indexes both collections rely on.
// CreateMany is idempotent, so this runs unconditionally at startup.
//
// The snippet text index pins default_language to "none" and points
// language_override at a key that never appears in documents: the domain
// field `language` holds a programming language name, and MongoDB must
// never read it as a text-search locale.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	snippets := db.Collection(models.SnippetModel{}.Collection())
	_, err := snippets.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "language", Value: 1}, {Key: "isPublic", Value: 1}, {Key: "user", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "tags", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().
				SetDefaultLanguage("none").
				SetLanguageOverride("__textSearchLanguage"),
		},
	})
	if err != nil {
		return fmt.Errorf("snippet indexes: %w", err)
	}

	users := db.Collection(models.UserModel{}.Collection())
	_, err = users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	return nil
}
