package main

import (
	"context"
	"database/sql"
	"delivery-tracker-service/internal/adapters/cache"
	"delivery-tracker-service/internal/adapters/repositories"
	"delivery-tracker-service/internal/adapters/tracking"
	"delivery-tracker-service/internal/api"
	"delivery-tracker-service/internal/platform/db"
	"delivery-tracker-service/internal/ports"
	"delivery-tracker-service/internal/services"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (tracking API, SQLite/Postgres, Redis) behind
// ports, starts the poll loop and dispatcher, and serves HTTP.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := getEnv("PORT", "8080")
	staticDir := getEnv("STATIC_DIR", "static")
	pollInterval := time.Duration(getEnvInt("POLL_INTERVAL_SECS", 30)) * time.Second

	apiURL := os.Getenv("TRACKING_API_URL")
	if strings.TrimSpace(apiURL) == "" {
		log.Fatal("TRACKING_API_URL is required")
	}
	apiKey := os.Getenv("TRACKING_API_KEY")

	repo, closeRepo, err := openSubscriptionRepo()
	if err != nil {
		log.Fatal(err)
	}
	defer closeRepo()

	snapCache, closeCache := openSnapshotCache(pollInterval)
	defer closeCache()

	provider, err := tracking.NewAPITrackingProvider(apiURL, apiKey)
	if err != nil {
		log.Fatal(err)
	}
	poller := services.NewPoller(provider, snapCache, pollInterval)
	dispatcher := services.NewWebhookDispatcher(repo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go poller.Run(ctx)

	hookSnapshots, cancelHooks := poller.Subscribe(8)
	defer cancelHooks()
	go dispatcher.Run(ctx, hookSnapshots)

	router := api.NewRouter(api.Deps{
		Source:     poller,
		Subscriber: poller,
		Repo:       repo,
		Cache:      snapCache,
		StaticDir:  staticDir,
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// SSE and websocket connections are long-lived; no write timeout.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// openSubscriptionRepo picks Postgres when DATABASE_URL is set, SQLite
// otherwise. The SQLite schema is initialized on startup for local runs;
// Postgres is initialized out-of-band by cmd/dbtool.
func openSubscriptionRepo() (ports.SubscriptionRepository, func(), error) {
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Println("Subscription store: postgres")
		return repositories.NewSQLSubscriptionRepository(pg), func() { _ = pg.Close() }, nil
	}

	dbPath := getEnv("DB_PATH", "data/app.db")
	lite, err := openSqlite(dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSchema(lite); err != nil {
		_ = lite.Close()
		return nil, nil, err
	}
	log.Printf("Subscription store: sqlite path=%s", dbPath)
	return repositories.NewSqliteSubscriptionRepository(lite), func() { _ = lite.Close() }, nil
}

// openSnapshotCache picks Redis when REDIS_ADDR is set; otherwise snapshots
// are cached in process memory. Entries outlive two poll intervals at most.
func openSnapshotCache(pollInterval time.Duration) (ports.SnapshotCache, func()) {
	ttl := 2 * pollInterval

	addr := os.Getenv("REDIS_ADDR")
	if strings.TrimSpace(addr) == "" {
		return cache.NewMemorySnapshotCache(ttl), func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	log.Printf("Snapshot cache: redis addr=%s", addr)
	return cache.NewRedisSnapshotCache(client, ttl), func() { _ = client.Close() }
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("%s must be an integer, got %q", key, v)
	}
	return n
}

func openSqlite(dbPath string) (*sql.DB, error) {
	lite, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := lite.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return lite, nil
}
