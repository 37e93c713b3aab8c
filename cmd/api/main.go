// Command api runs the scribe blogging backend.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scribehq/scribe/internal/auth/password"
	"github.com/scribehq/scribe/internal/auth/token"
	"github.com/scribehq/scribe/internal/config"
	"github.com/scribehq/scribe/internal/httpserver"
	"github.com/scribehq/scribe/internal/httpserver/middleware"
	"github.com/scribehq/scribe/internal/identity"
	"github.com/scribehq/scribe/internal/logger"
	"github.com/scribehq/scribe/internal/posts"
	"github.com/scribehq/scribe/internal/store"
	"github.com/scribehq/scribe/internal/store/memory"
	"github.com/scribehq/scribe/internal/store/mongo"
)

const serviceName = "scribe-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault(serviceName).Fatal("Failed to load config", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Init(cfg.Log)
	log := logger.New(&cfg.Log, serviceName)
	logger.SetGlobalLogger(log)

	if cfg.UsingInsecureSecret() {
		log.Warn("Token signing secret is the insecure default; set JWT_SECRET in production")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users, postStore, ping, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open store", map[string]interface{}{"error": err.Error()})
	}
	defer closeStore()

	tokens, err := token.NewService(cfg.Auth.Token)
	if err != nil {
		log.Fatal("Failed to build token service", map[string]interface{}{"error": err.Error()})
	}
	hasher := password.NewHasher(cfg.Auth.Password)

	identitySvc := identity.NewService(users, hasher, tokens, log)
	postsSvc := posts.NewService(postStore, users, log)

	srv := httpserver.New(cfg.Server, log)
	srv.ApplyMiddleware()
	registerRoutes(srv.GinEngine(), identitySvc, postsSvc, ping)

	if err := srv.Start(ctx); err != nil {
		log.Fatal("Failed to start server", map[string]interface{}{"error": err.Error()})
	}
	log.Info("scribe API ready", map[string]interface{}{"addr": srv.Addr()})

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Shutdown error", map[string]interface{}{"error": err.Error()})
	}
}

// openStore builds the configured persistence backend and returns its
// collection stores, a health probe, and a close function.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (store.UserStore, store.PostStore, func(context.Context) error, func(), error) {
	switch cfg.Store.Driver {
	case "memory":
		log.Warn("Using in-memory store; data is lost on restart")
		mem := memory.New()
		noop := func(context.Context) error { return nil }
		return mem.Users(), mem.Posts(), noop, func() {}, nil
	default:
		ms, err := mongo.Connect(ctx, cfg.Store.Mongo, log)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = ms.Close(closeCtx)
		}
		return ms.Users(), ms.Posts(), ms.Ping, closeFn, nil
	}
}

// registerRoutes wires the HTTP surface: unauthenticated identity and
// listing endpoints, and the auth-gated post mutations.
func registerRoutes(engine *gin.Engine, identitySvc *identity.Service, postsSvc *posts.Service, ping func(context.Context) error) {
	engine.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if err := ping(c.Request.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "service": serviceName})
	})

	identity.NewHandler(identitySvc).Routes(engine)

	authed := engine.Group("", middleware.Auth(middleware.AuthConfig{
		Verify: identitySvc.TokenVerifier(),
	}))
	posts.NewHandler(postsSvc).Routes(engine, authed)
}
