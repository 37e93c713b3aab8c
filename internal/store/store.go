// Package store defines the persistence contract for the service: two
// collection-shaped stores (users, posts) supporting find-by-field,
// find-by-id, insert, update, and delete.
//
// Implementations live in subpackages (mongo for production, memory for
// development and tests). All shared mutable state lives behind these
// interfaces; the request flow itself holds none.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel errors implementations map their backend errors to.
var (
	// ErrNotFound is returned when no document matches the query.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicateEmail is returned when inserting a user whose email is
	// already registered. Uniqueness is enforced at write time by the store.
	ErrDuplicateEmail = errors.New("store: email already registered")
)

// User is an identity record. Created by registration; never mutated or
// deleted by this service. The password field holds the salted hash, never
// plaintext, and is excluded from JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Post is a content record owned by a user.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Body      string             `bson:"body" json:"body"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Patch is a shallow set of field overwrites applied to a stored document.
// Keys are document field names; values replace the stored values as-is.
type Patch map[string]any

// UserStore persists users.
type UserStore interface {
	// FindByEmail returns the user with the given email (case-sensitive
	// as stored) or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID returns the user with the given id or ErrNotFound.
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)

	// FindByIDs returns the users whose ids appear in the given set.
	// Missing ids are skipped, not an error.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]User, error)

	// Insert stores a new user, assigning ID and timestamps.
	// Returns ErrDuplicateEmail if the email is taken.
	Insert(ctx context.Context, u *User) error
}

// PostStore persists posts.
type PostStore interface {
	// FindAll returns every stored post.
	FindAll(ctx context.Context) ([]Post, error)

	// FindByID returns the post with the given id or ErrNotFound.
	FindByID(ctx context.Context, id primitive.ObjectID) (*Post, error)

	// Insert stores a new post, assigning ID and timestamps.
	Insert(ctx context.Context, p *Post) error

	// Update applies the patch to the stored post as a single document
	// write (last-write-wins, no optimistic concurrency) and returns the
	// updated post, or ErrNotFound.
	Update(ctx context.Context, id primitive.ObjectID, patch Patch) (*Post, error)

	// Delete removes the post or returns ErrNotFound.
	Delete(ctx context.Context, id primitive.ObjectID) error
}
