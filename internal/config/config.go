package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetDuration parses a Go duration ("300ms", "2h"); invalid values fall back with a log line.
func GetDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("config: invalid duration %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

// GetInt parses an integer; invalid values fall back with a log line.
func GetInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid integer %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

// GetList splits a comma separated value, dropping empty entries.
func GetList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	out := make([]string, 0, 4)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Server holds everything cmd/server needs to wire the service.
type Server struct {
	Port           string
	DBPath         string
	DatabaseURL    string
	OSRMBaseURL    string
	VietmapBaseURL string
	VietmapAPIKey  string
	ProfileURL     string
	AppBaseURL     string
	RedisURL       string
	AllowedOrigins []string

	SuggestionTTL  time.Duration
	SearchDebounce time.Duration
	SessionTTL     time.Duration
	HTTPTimeout    time.Duration
	MaxAttempts    int
}

// LoadServer reads the server configuration from the environment.
func LoadServer() (Server, error) {
	cfg := Server{
		Port:           Get("PORT", "8080"),
		DBPath:         Get("DB_PATH", "data/app.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		OSRMBaseURL:    strings.TrimRight(Get("OSRM_BASE_URL", "https://router.project-osrm.org"), "/"),
		VietmapBaseURL: strings.TrimRight(Get("VIETMAP_BASE_URL", "https://maps.vietmap.vn/api"), "/"),
		VietmapAPIKey:  os.Getenv("VIETMAP_API_KEY"),
		ProfileURL:     Get("PROFILE_URL", "http://localhost:8080/api/users/profile"),
		AppBaseURL:     Get("APP_BASE_URL", "/"),
		RedisURL:       os.Getenv("REDIS_URL"),
		AllowedOrigins: GetList("ALLOWED_ORIGINS", []string{"*"}),

		SuggestionTTL:  GetDuration("SUGGESTION_TTL", 10*time.Minute),
		SearchDebounce: GetDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),
		SessionTTL:     GetDuration("SESSION_TTL", 2*time.Hour),
		HTTPTimeout:    GetDuration("HTTP_TIMEOUT", 10*time.Second),
		MaxAttempts:    GetInt("HTTP_MAX_ATTEMPTS", 1),
	}

	if strings.TrimSpace(cfg.VietmapAPIKey) == "" {
		return Server{}, fmt.Errorf("load config: VIETMAP_API_KEY is required")
	}
	if cfg.MaxAttempts < 1 {
		return Server{}, fmt.Errorf("load config: HTTP_MAX_ATTEMPTS must be >= 1, got %d", cfg.MaxAttempts)
	}

	return cfg, nil
}
