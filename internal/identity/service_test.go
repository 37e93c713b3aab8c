package identity

import (
	"context"
	"testing"

	"github.com/scribehq/scribe/internal/apperr"
	"github.com/scribehq/scribe/internal/auth/password"
	"github.com/scribehq/scribe/internal/auth/token"
	"github.com/scribehq/scribe/internal/logger"
	"github.com/scribehq/scribe/internal/store/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	mem := memory.New()
	tokens, err := token.NewService(token.Config{Secret: "test-secret"})
	if err != nil {
		t.Fatal(err)
	}
	hasher := password.NewBcryptHasher(password.WithCost(4))
	svc := NewService(mem.Users(), hasher, tokens, logger.NewDefault("test"))
	return svc, mem
}

func TestRegisterThenLogin(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	if err := svc.Register(ctx, "Ann", "a@x.com", "pw1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	stored, err := mem.Users().FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if stored.PasswordHash == "pw1" || stored.PasswordHash == "" {
		t.Error("password must be stored hashed, never plaintext")
	}

	signed, err := svc.Login(ctx, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if signed == "" {
		t.Fatal("expected a token")
	}

	userID, err := svc.TokenVerifier()(signed)
	if err != nil {
		t.Fatalf("issued token must verify: %v", err)
	}
	if userID != stored.ID.Hex() {
		t.Errorf("expected token for user %s, got %s", stored.ID.Hex(), userID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	if err := svc.Register(ctx, "Ann", "a@x.com", "pw1"); err != nil {
		t.Fatal(err)
	}

	err := svc.Register(ctx, "Impostor", "a@x.com", "pw2")
	appErr, ok := apperr.As(err)
	if !ok || appErr.Code != apperr.CodeUserExists {
		t.Fatalf("expected USER_EXISTS, got %v", err)
	}

	stored, err := mem.Users().FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Name != "Ann" {
		t.Error("duplicate register must not replace the existing record")
	}
}

func TestLogin_UnifiedCredentialError(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Register(ctx, "Ann", "a@x.com", "pw1"); err != nil {
		t.Fatal(err)
	}

	_, unknownErr := svc.Login(ctx, "nobody@x.com", "pw1")
	_, wrongPwErr := svc.Login(ctx, "a@x.com", "wrong")

	unknown, ok := apperr.As(unknownErr)
	if !ok || unknown.Code != apperr.CodeInvalidCredentials {
		t.Fatalf("expected INVALID_CREDENTIALS for unknown email, got %v", unknownErr)
	}
	wrong, ok := apperr.As(wrongPwErr)
	if !ok || wrong.Code != apperr.CodeInvalidCredentials {
		t.Fatalf("expected INVALID_CREDENTIALS for wrong password, got %v", wrongPwErr)
	}
	if unknown.Message != wrong.Message {
		t.Error("unknown-email and wrong-password must be indistinguishable")
	}
}

func TestTokenVerifier_RejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.TokenVerifier()("not-a-token"); err == nil {
		t.Error("expected error for a malformed token")
	}
}
