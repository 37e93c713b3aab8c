package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scribehq/scribe/internal/store"
)

// Posts implements store.PostStore on the posts collection.
type Posts struct {
	coll *mongo.Collection
}

func (p *Posts) FindAll(ctx context.Context) ([]store.Post, error) {
	cursor, err := p.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongo: find posts: %w", err)
	}
	var posts []store.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("mongo: decode posts: %w", err)
	}
	return posts, nil
}

func (p *Posts) FindByID(ctx context.Context, id primitive.ObjectID) (*store.Post, error) {
	var post store.Post
	err := p.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: find post by id: %w", err)
	}
	return &post, nil
}

func (p *Posts) Insert(ctx context.Context, post *store.Post) error {
	now := time.Now().UTC()
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	post.CreatedAt = now
	post.UpdatedAt = now

	if _, err := p.coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("mongo: insert post: %w", err)
	}
	return nil
}

func (p *Posts) Update(ctx context.Context, id primitive.ObjectID, patch store.Patch) (*store.Post, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range patch {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post store.Post
	err := p.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: update post: %w", err)
	}
	return &post, nil
}

func (p *Posts) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := p.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo: delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
