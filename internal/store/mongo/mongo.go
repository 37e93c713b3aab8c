// Package mongo implements the store interfaces on MongoDB using the
// official driver. It is the production persistence collaborator: two
// collections (users, posts) in one database, with email uniqueness
// enforced by a unique index.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scribehq/scribe/internal/logger"
	"github.com/scribehq/scribe/internal/store"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
)

// Config holds MongoDB connection configuration.
type Config struct {
	// URI is the connection string (default: mongodb://localhost:27017).
	URI string `yaml:"uri" mapstructure:"uri"`

	// Database is the database name (default: assignment).
	Database string `yaml:"database" mapstructure:"database"`

	// ConnectTimeout bounds the initial connect and ping (default: 10s).
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.URI == "" {
		c.URI = "mongodb://localhost:27017"
	}
	if c.Database == "" {
		c.Database = "assignment"
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 10 * time.Second
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.URI == "" {
		return fmt.Errorf("store.uri must not be empty")
	}
	if c.Database == "" {
		return fmt.Errorf("store.database must not be empty")
	}
	return nil
}

// Store wraps a connected MongoDB database and exposes the collection stores.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	users  *Users
	posts  *Posts
	log    *logger.Logger
}

// Connect establishes the MongoDB connection, pings the server, and ensures
// the unique index on users.email.
func Connect(ctx context.Context, cfg Config, log *logger.Logger) (*Store, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect %s: %w", cfg.URI, err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo: ping %s: %w", cfg.URI, err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client: client,
		db:     db,
		log:    log.WithComponent("mongo"),
	}
	s.users = &Users{coll: db.Collection(usersCollection)}
	s.posts = &Posts{coll: db.Collection(postsCollection)}

	if err := s.ensureIndexes(connectCtx); err != nil {
		return nil, err
	}

	s.log.Info("Connected to MongoDB", map[string]interface{}{
		"database": cfg.Database,
	})
	return s, nil
}

// ensureIndexes creates the unique index backing the email uniqueness
// invariant. Idempotent across restarts.
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo: create email index: %w", err)
	}
	return nil
}

// Users returns the user store.
func (s *Store) Users() store.UserStore { return s.users }

// Posts returns the post store.
func (s *Store) Posts() store.PostStore { return s.posts }

// Ping reports whether the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo: disconnect: %w", err)
	}
	s.log.Info("Disconnected from MongoDB")
	return nil
}
