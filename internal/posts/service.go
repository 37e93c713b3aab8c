// Package posts implements the post ownership flow: listing with author
// details, and create/update/delete gated on the authenticated identity
// owning the target post.
package posts

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/scribehq/scribe/internal/apperr"
	"github.com/scribehq/scribe/internal/auth/authctx"
	"github.com/scribehq/scribe/internal/logger"
	"github.com/scribehq/scribe/internal/store"
)

// Author is the owning user's public view joined onto a listed post.
type Author struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// PostView is a post joined with its author for read responses.
type PostView struct {
	ID        primitive.ObjectID `json:"id"`
	Title     string             `json:"title"`
	Body      string             `json:"body"`
	Image     string             `json:"image,omitempty"`
	User      Author             `json:"user"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Service composes the post store with the user store for author joins.
type Service struct {
	posts store.PostStore
	users store.UserStore
	log   *logger.Logger
}

// NewService creates the posts service.
func NewService(posts store.PostStore, users store.UserStore, log *logger.Logger) *Service {
	return &Service{
		posts: posts,
		users: users,
		log:   log.WithComponent("posts"),
	}
}

// List returns every stored post joined with its owner's public fields.
// Unauthenticated and unfiltered; the join is a single batch fetch of the
// distinct owner ids.
func (s *Service) List(ctx context.Context) ([]PostView, error) {
	all, err := s.posts.FindAll(ctx)
	if err != nil {
		return nil, apperr.StoreError(err)
	}

	ownerIDs := make([]primitive.ObjectID, 0, len(all))
	seen := make(map[primitive.ObjectID]bool, len(all))
	for _, p := range all {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ownerIDs = append(ownerIDs, p.UserID)
		}
	}

	owners, err := s.users.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, apperr.StoreError(err)
	}
	byID := make(map[primitive.ObjectID]store.User, len(owners))
	for _, u := range owners {
		byID[u.ID] = u
	}

	views := make([]PostView, 0, len(all))
	for _, p := range all {
		author := Author{ID: p.UserID}
		if u, ok := byID[p.UserID]; ok {
			author.Name = u.Name
			author.Email = u.Email
		}
		views = append(views, PostView{
			ID:        p.ID,
			Title:     p.Title,
			Body:      p.Body,
			Image:     p.Image,
			User:      author,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return views, nil
}

// Create persists a new post owned by the authenticated identity.
func (s *Service) Create(ctx context.Context, id authctx.Identity, title, body, image string) (*store.Post, error) {
	ownerID, err := primitive.ObjectIDFromHex(id.UserID)
	if err != nil {
		return nil, apperr.InvalidToken().WithCause(err)
	}

	post := &store.Post{
		Title:  title,
		Body:   body,
		Image:  image,
		UserID: ownerID,
	}
	if err := s.posts.Insert(ctx, post); err != nil {
		return nil, apperr.StoreError(err)
	}

	s.log.Info("Post created", map[string]interface{}{
		logger.FieldPostID: post.ID.Hex(),
		logger.FieldUserID: id.UserID,
	})
	return post, nil
}

// Update applies a shallow patch to the post after the ownership gate:
// NOT_FOUND when the id matches nothing, FORBIDDEN when the stored owner is
// not the caller. The patch is a plain field overwrite; any caller-supplied
// field is applied, including the owner reference, with only the immutable
// id and timestamps stripped.
func (s *Service) Update(ctx context.Context, id authctx.Identity, postID string, patch store.Patch) (*store.Post, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID.Hex() != id.UserID {
		return nil, apperr.Forbidden()
	}

	cleaned, err := sanitizePatch(patch)
	if err != nil {
		return nil, err
	}

	updated, err := s.posts.Update(ctx, post.ID, cleaned)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("post", postID)
	}
	if err != nil {
		return nil, apperr.StoreError(err)
	}

	s.log.Info("Post updated", map[string]interface{}{
		logger.FieldPostID: post.ID.Hex(),
		logger.FieldUserID: id.UserID,
	})
	return updated, nil
}

// Delete removes the post after the same NOT_FOUND/FORBIDDEN gate as Update.
func (s *Service) Delete(ctx context.Context, id authctx.Identity, postID string) error {
	post, err := s.load(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID.Hex() != id.UserID {
		return apperr.Forbidden()
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return apperr.StoreError(err)
	}

	s.log.Info("Post deleted", map[string]interface{}{
		logger.FieldPostID: post.ID.Hex(),
		logger.FieldUserID: id.UserID,
	})
	return nil
}

// load resolves a post id string to the stored post. A malformed id denotes
// no stored post and reports NOT_FOUND like any other unknown id.
func (s *Service) load(ctx context.Context, postID string) (*store.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, apperr.NotFound("post", postID)
	}
	post, err := s.posts.FindByID(ctx, oid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("post", postID)
	}
	if err != nil {
		return nil, apperr.StoreError(err)
	}
	return post, nil
}

// sanitizePatch strips fields the store owns (id, timestamps) and casts the
// owner reference to an object id when supplied.
func sanitizePatch(patch store.Patch) (store.Patch, error) {
	cleaned := make(store.Patch, len(patch))
	for k, v := range patch {
		switch k {
		case "_id", "id", "createdAt", "updatedAt":
			continue
		case "user":
			hex, ok := v.(string)
			if !ok {
				return nil, apperr.Validation("user must be an object id string")
			}
			oid, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				return nil, apperr.Validation("user must be a valid object id")
			}
			cleaned[k] = oid
		default:
			cleaned[k] = v
		}
	}
	return cleaned, nil
}
