package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/notify"
	"trip-planner-service/internal/adapters/places"
	"trip-planner-service/internal/adapters/profile"
	"trip-planner-service/internal/adapters/routing"
	"trip-planner-service/internal/adapters/storage"
	"trip-planner-service/internal/api"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/httpx"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/session"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, OSRM, Vietmap) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, placeCache, localStorage, err := openStores(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	var suggestionCache ports.SuggestionCache
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		defer rdb.Close()
		suggestionCache = cache.NewRedisSuggestionCache(rdb, cfg.SuggestionTTL)
	} else {
		log.Println("REDIS_URL not set, autocomplete results are not cached")
	}

	client := httpx.NewClient(cfg.HTTPTimeout, cfg.MaxAttempts)

	routes, err := routing.NewOSRMRouteProvider(client, cfg.OSRMBaseURL)
	if err != nil {
		log.Fatal(err)
	}
	searcher, err := places.NewVietmapPlaceSearcher(client, cfg.VietmapBaseURL, cfg.VietmapAPIKey, suggestionCache, placeCache)
	if err != nil {
		log.Fatal(err)
	}
	profiles, err := profile.NewHTTPProfileProvider(client, cfg.ProfileURL)
	if err != nil {
		log.Fatal(err)
	}

	sessions := session.NewRegistry(cfg.SessionTTL)
	go sessions.Run(ctx)

	router := api.NewRouter(api.Deps{
		Sessions:       sessions,
		Routes:         routes,
		Searcher:       searcher,
		Storage:        localStorage,
		Profiles:       profiles,
		Hub:            notify.NewHub(api.OriginChecker(cfg.AllowedOrigins)),
		AppBaseURL:     cfg.AppBaseURL,
		AllowedOrigins: cfg.AllowedOrigins,
		SearchDebounce: cfg.SearchDebounce,
	})

	// No WriteTimeout: websocket connections are long-lived.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// openStores picks Postgres when DATABASE_URL is set and the local SQLite
// file otherwise, and makes sure the schema exists.
func openStores(cfg config.Server) (*sql.DB, ports.PlaceCache, ports.LocalStorage, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := storage.InitSchema(conn, db.Postgres); err != nil {
			conn.Close()
			return nil, nil, nil, err
		}
		return conn, cache.NewSQLPlaceCache(conn), storage.NewSQLLocalStorage(conn), nil
	}

	conn, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := storage.InitSchema(conn, db.SQLite); err != nil {
		conn.Close()
		return nil, nil, nil, err
	}
	return conn, cache.NewSqlitePlaceCache(conn), storage.NewSqliteLocalStorage(conn), nil
}

func openRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("open redis: parse url: %w", err)
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("open redis: ping: %w", err)
	}

	return rdb, nil
}
