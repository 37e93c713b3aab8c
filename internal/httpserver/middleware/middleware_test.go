package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/scribehq/scribe/internal/httpserver/middleware"
	"github.com/scribehq/scribe/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func authRouter(verify func(string) (string, error)) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Auth(middleware.AuthConfig{Verify: verify}))
	r.GET("/protected", func(c *gin.Context) {
		id, ok := middleware.IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID})
	})
	return r
}

func TestAuth_MissingHeader(t *testing.T) {
	r := authRouter(func(string) (string, error) {
		t.Fatal("verify must not be called without a credential")
		return "", nil
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/protected", http.NoBody))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Error.Code != "UNAUTHENTICATED" {
		t.Errorf("expected UNAUTHENTICATED, got %s", body.Error.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	r := authRouter(func(string) (string, error) {
		return "", errors.New("bad signature")
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", http.NoBody)
	req.Header.Set("Authorization", "garbage")
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	var seen string
	r := authRouter(func(tok string) (string, error) {
		seen = tok
		return "user-42", nil
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", http.NoBody)
	req.Header.Set("Authorization", "raw-token")
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if seen != "raw-token" {
		t.Errorf("expected verifier to receive the raw token, got %q", seen)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["user_id"] != "user-42" {
		t.Errorf("expected identity user-42 in handler, got %s", body["user_id"])
	}
}

func TestAuth_BearerPrefixStripped(t *testing.T) {
	var seen string
	r := authRouter(func(tok string) (string, error) {
		seen = tok
		return "user-42", nil
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", http.NoBody)
	req.Header.Set("Authorization", "Bearer raw-token")
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if seen != "raw-token" {
		t.Errorf("expected Bearer prefix to be stripped, verifier got %q", seen)
	}
}

// ---------------------------------------------------------------------------
// RequestID
// ---------------------------------------------------------------------------

func TestRequestID_GeneratesID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id in response headers")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set("X-Request-Id", "custom-id-123")
	r.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-Id"); got != "custom-id-123" {
		t.Fatalf("expected custom-id-123, got %s", got)
	}
}

// ---------------------------------------------------------------------------
// Recovery
// ---------------------------------------------------------------------------

func TestRecovery_Panic(t *testing.T) {
	log := logger.NewDefault("test")
	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.GET("/boom", func(c *gin.Context) { panic("test panic") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/boom", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

// ---------------------------------------------------------------------------
// CORS
// ---------------------------------------------------------------------------

func TestCORS_SetHeaders(t *testing.T) {
	cfg := &middleware.CORSConfig{
		AllowedOrigins: []string{"https://example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}
	r := gin.New()
	r.Use(middleware.CORS(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set("Origin", "https://example.com")
	r.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Fatalf("expected https://example.com, got %s", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	cfg := &middleware.CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}
	r := gin.New()
	r.Use(middleware.CORS(cfg))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/", http.NoBody)
	req.Header.Set("Origin", "https://anywhere.dev")
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rr.Code)
	}
}
