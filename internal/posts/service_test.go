package posts

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/scribehq/scribe/internal/apperr"
	"github.com/scribehq/scribe/internal/auth/authctx"
	"github.com/scribehq/scribe/internal/logger"
	"github.com/scribehq/scribe/internal/store"
	"github.com/scribehq/scribe/internal/store/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	mem := memory.New()
	return NewService(mem.Posts(), mem.Users(), logger.NewDefault("test")), mem
}

func addUser(t *testing.T, mem *memory.Store, name, email string) *store.User {
	t.Helper()
	u := &store.User{Name: name, Email: email, PasswordHash: "h"}
	if err := mem.Users().Insert(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return u
}

func identityOf(u *store.User) authctx.Identity {
	return authctx.Identity{UserID: u.ID.Hex()}
}

func TestCreateAndList(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	ann := addUser(t, mem, "Ann", "a@x.com")

	created, err := svc.Create(ctx, identityOf(ann), "T", "B", "img.png")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.UserID != ann.ID {
		t.Errorf("post must be owned by the creating identity")
	}

	views, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 post, got %d", len(views))
	}
	v := views[0]
	if v.Title != "T" || v.Body != "B" || v.Image != "img.png" {
		t.Errorf("unexpected view %+v", v)
	}
	if v.User.Name != "Ann" || v.User.Email != "a@x.com" {
		t.Errorf("expected owner public fields joined, got %+v", v.User)
	}
	if v.User.ID != ann.ID {
		t.Errorf("expected owner id %s, got %s", ann.ID.Hex(), v.User.ID.Hex())
	}
}

func TestCreate_BadIdentity(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), authctx.Identity{UserID: "not-hex"}, "T", "B", "")
	appErr, ok := apperr.As(err)
	if !ok || appErr.Code != apperr.CodeInvalidToken {
		t.Fatalf("expected INVALID_TOKEN for a malformed identity, got %v", err)
	}
}

func TestUpdate_OwnershipGate(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	ann := addUser(t, mem, "Ann", "a@x.com")
	bob := addUser(t, mem, "Bob", "b@x.com")

	post, err := svc.Create(ctx, identityOf(ann), "T", "B", "")
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Update(ctx, identityOf(bob), post.ID.Hex(), store.Patch{"title": "hijacked"})
	appErr, ok := apperr.As(err)
	if !ok || appErr.Code != apperr.CodeForbidden {
		t.Fatalf("non-owner update must be FORBIDDEN, got %v", err)
	}

	updated, err := svc.Update(ctx, identityOf(ann), post.ID.Hex(), store.Patch{"title": "T2"})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Title != "T2" || updated.Body != "B" {
		t.Errorf("patch must overwrite only supplied fields, got %+v", updated)
	}
}

func TestUpdate_OwnerReassignmentViaPatch(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	ann := addUser(t, mem, "Ann", "a@x.com")
	bob := addUser(t, mem, "Bob", "b@x.com")

	post, err := svc.Create(ctx, identityOf(ann), "T", "B", "")
	if err != nil {
		t.Fatal(err)
	}

	// The shallow merge applies any supplied field, the owner reference
	// included; only the requester's ownership of the current state is
	// checked.
	updated, err := svc.Update(ctx, identityOf(ann), post.ID.Hex(), store.Patch{"user": bob.ID.Hex()})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.UserID != bob.ID {
		t.Error("expected ownership reassigned via patch")
	}

	// After the reassignment Ann is no longer the owner.
	_, err = svc.Update(ctx, identityOf(ann), post.ID.Hex(), store.Patch{"title": "x"})
	appErr, ok := apperr.As(err)
	if !ok || appErr.Code != apperr.CodeForbidden {
		t.Fatalf("expected FORBIDDEN after reassignment, got %v", err)
	}
}

func TestUpdate_BadOwnerValueRejected(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	ann := addUser(t, mem, "Ann", "a@x.com")

	post, err := svc.Create(ctx, identityOf(ann), "T", "B", "")
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.Update(ctx, identityOf(ann), post.ID.Hex(), store.Patch{"user": "not-an-object-id"})
	appErr, ok := apperr.As(err)
	if !ok || appErr.Code != apperr.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT for a bad owner value, got %v", err)
	}
}

func TestDelete_OwnershipGate(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	ann := addUser(t, mem, "Ann", "a@x.com")
	bob := addUser(t, mem, "Bob", "b@x.com")

	post, err := svc.Create(ctx, identityOf(ann), "T", "B", "")
	if err != nil {
		t.Fatal(err)
	}

	err = svc.Delete(ctx, identityOf(bob), post.ID.Hex())
	appErr, ok := apperr.As(err)
	if !ok || appErr.Code != apperr.CodeForbidden {
		t.Fatalf("non-owner delete must be FORBIDDEN, got %v", err)
	}

	if err := svc.Delete(ctx, identityOf(ann), post.ID.Hex()); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	views, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 0 {
		t.Errorf("expected no posts after delete, got %d", len(views))
	}
}

func TestUpdateDelete_UnknownPost(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	ann := addUser(t, mem, "Ann", "a@x.com")

	for _, id := range []string{primitive.NewObjectID().Hex(), "malformed-id"} {
		_, err := svc.Update(ctx, identityOf(ann), id, store.Patch{"title": "x"})
		if appErr, ok := apperr.As(err); !ok || appErr.Code != apperr.CodeNotFound {
			t.Errorf("Update(%q): expected NOT_FOUND, got %v", id, err)
		}
		err = svc.Delete(ctx, identityOf(ann), id)
		if appErr, ok := apperr.As(err); !ok || appErr.Code != apperr.CodeNotFound {
			t.Errorf("Delete(%q): expected NOT_FOUND, got %v", id, err)
		}
	}
}

func TestList_Empty(t *testing.T) {
	svc, _ := newTestService(t)
	views, err := svc.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 0 {
		t.Errorf("expected empty list, got %d", len(views))
	}
}
