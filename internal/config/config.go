package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by VERITY_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("VERITY_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// EnrichmentProvider returns the configured enrichment provider.
// Defaults to "openai" if not set. Valid values: openai, mock.
func EnrichmentProvider() string {
	p := os.Getenv("ENRICHMENT_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// RegistryProvider returns the configured registry evidence source.
// Defaults to "simulated" if not set. Valid values: simulated, mock.
func RegistryProvider() string {
	p := os.Getenv("REGISTRY_PROVIDER")
	if p == "" {
		return "simulated"
	}
	return p
}

// SimulationTrust returns the trust multiplier applied to SIMULATION
// provenance. Defaults to 0.5; kept configurable pending product
// clarification on how much fallback evidence should count.
func SimulationTrust() float64 {
	trust, err := strconv.ParseFloat(os.Getenv("SIMULATION_TRUST"), 64)
	if err != nil || trust < 0 || trust > 1 {
		return 0.5
	}
	return trust
}

// RegistryCacheFreshTTL is how long cached evidence counts as CACHED_VALID.
// Defaults to 1h. Zero disables the evidence cache entirely.
func RegistryCacheFreshTTL() time.Duration {
	d, err := time.ParseDuration(os.Getenv("REGISTRY_CACHE_FRESH_TTL"))
	if err != nil {
		return time.Hour
	}
	return d
}

// RegistryCacheStaleTTL is how long cached evidence is retained as
// STALE_LIVE before eviction. Defaults to 24h.
func RegistryCacheStaleTTL() time.Duration {
	d, err := time.ParseDuration(os.Getenv("REGISTRY_CACHE_STALE_TTL"))
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// MigrationsPath returns the directory holding SQL migrations.
func MigrationsPath() string {
	p := os.Getenv("MIGRATIONS_PATH")
	if p == "" {
		return "migrations"
	}
	return p
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
