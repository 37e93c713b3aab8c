package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/scribehq/scribe/internal/store"
)

// Users implements store.UserStore on the users collection.
type Users struct {
	coll *mongo.Collection
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*store.User, error) {
	var user store.User
	err := u.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: find user by email: %w", err)
	}
	return &user, nil
}

func (u *Users) FindByID(ctx context.Context, id primitive.ObjectID) (*store.User, error) {
	var user store.User
	err := u.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: find user by id: %w", err)
	}
	return &user, nil
}

func (u *Users) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]store.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := u.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("mongo: find users by ids: %w", err)
	}
	var users []store.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("mongo: decode users: %w", err)
	}
	return users, nil
}

func (u *Users) Insert(ctx context.Context, user *store.User) error {
	now := time.Now().UTC()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := u.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicateEmail
		}
		return fmt.Errorf("mongo: insert user: %w", err)
	}
	return nil
}
