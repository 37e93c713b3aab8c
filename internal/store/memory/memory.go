// Package memory implements the store interfaces in process memory.
// It backs the dev store driver and the package tests; the contract
// (sentinel errors, uniqueness at write time, last-write-wins updates)
// mirrors the mongo implementation.
package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/scribehq/scribe/internal/store"
)

// Store holds both collections behind a single mutex. Reads return copies
// so callers never share memory with the stored documents.
type Store struct {
	mu     sync.RWMutex
	users  map[primitive.ObjectID]store.User
	emails map[string]primitive.ObjectID
	posts  map[primitive.ObjectID]store.Post
	order  []primitive.ObjectID
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:  make(map[primitive.ObjectID]store.User),
		emails: make(map[string]primitive.ObjectID),
		posts:  make(map[primitive.ObjectID]store.Post),
	}
}

// Users returns the user store.
func (s *Store) Users() store.UserStore { return (*usersView)(s) }

// Posts returns the post store.
func (s *Store) Posts() store.PostStore { return (*postsView)(s) }

// --- users ---

type usersView Store

func (s *usersView) FindByEmail(_ context.Context, email string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *usersView) FindByID(_ context.Context, id primitive.ObjectID) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *usersView) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *usersView) Insert(_ context.Context, u *store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.emails[u.Email]; taken {
		return store.ErrDuplicateEmail
	}
	now := time.Now().UTC()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = *u
	s.emails[u.Email] = u.ID
	return nil
}

// --- posts ---

type postsView Store

func (s *postsView) FindAll(_ context.Context) ([]store.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Post, 0, len(s.order))
	for _, id := range s.order {
		if p, ok := s.posts[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *postsView) FindByID(_ context.Context, id primitive.ObjectID) (*store.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *postsView) Insert(_ context.Context, p *store.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	s.posts[p.ID] = *p
	s.order = append(s.order, p.ID)
	return nil
}

func (s *postsView) Update(_ context.Context, id primitive.ObjectID, patch store.Patch) (*store.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	applyPatch(&p, patch)
	p.UpdatedAt = time.Now().UTC()
	s.posts[id] = p
	return &p, nil
}

func (s *postsView) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

// applyPatch mirrors the shallow field overwrite a document store performs
// on $set: every supplied field replaces the stored one, including the
// owner reference.
func applyPatch(p *store.Post, patch store.Patch) {
	for k, v := range patch {
		switch k {
		case "title":
			if s, ok := v.(string); ok {
				p.Title = s
			}
		case "body":
			if s, ok := v.(string); ok {
				p.Body = s
			}
		case "image":
			if s, ok := v.(string); ok {
				p.Image = s
			}
		case "user":
			if oid, ok := v.(primitive.ObjectID); ok {
				p.UserID = oid
			}
		}
	}
}
