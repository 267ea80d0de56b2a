package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"lg/sweat-go-api/internal/appctx"
	"lg/sweat-go-api/internal/config"
	"lg/sweat-go-api/internal/dashboard"
	"lg/sweat-go-api/internal/sessions"
	"lg/sweat-go-api/internal/store"
)

// openStore builds the configured Store. The returned func releases any
// connections it holds.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		return store.NewMemoryStore(), func() {}, nil
	case "postgres":
		pool, err := store.NewPostgresPool(ctx, cfg.DBURL)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgresStore(pool), pool.Close, nil
	default:
		fs, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}

// newRouter wires the gin engine and wraps it in CORS for the web client.
func newRouter(h *Handler, allowedOrigins []string) http.Handler {
	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(router)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer closeStore()
	log.Printf("store ready (%s)", cfg.StoreDriver)

	var admin *appctx.AdminAccount
	if cfg.AdminUsername != "" {
		admin = &appctx.AdminAccount{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordHash}
	}
	app := appctx.New(kv, admin)
	if err := app.Init(ctx); err != nil {
		return fmt.Errorf("init session context: %w", err)
	}

	counters := dashboard.NewCounters()
	midnight, err := dashboard.NewScheduler(counters)
	if err != nil {
		return err
	}
	midnight.Start()
	defer midnight.Stop()

	backend := sessions.New(cfg.BackendURL, cfg.RequestTimeout)
	h := newHandler(app, kv, backend, counters)
	if cfg.PollInterval > 0 {
		poller, err := sessions.NewPoller(backend, app.Token, cfg.PollInterval, cfg.RequestTimeout)
		if err != nil {
			return err
		}
		poller.Start()
		defer poller.Stop()
		h.poller = poller
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(h, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s (backend %s)", cfg.Addr, backend.BaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	log.SetPrefix("sweat-api: ")
	log.SetFlags(log.LstdFlags)

	if err := run(); err != nil {
		log.Fatal(err)
	}
}
