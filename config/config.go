package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	StorePath  string
	ReportPath string

	ReportDelimiter     string
	ReportLocale        string
	ReportDrawFrequency bool

	NSeasons       int
	MFixtures      int
	InitialSeasons int

	BaseURL           string
	FetchMode         string
	MaxConcurrency    int
	RateLimitMs       int
	MaxRetries        int
	RequestTimeoutSec int
	ChromeBin         string

	CountryFilter []string
	LeagueFilter  string
	TeamFilter    string
	IncludeCups   bool
	Debug         bool

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		StorePath:  getEnv("STORE_PATH", "./data/soccer.json"),
		ReportPath: getEnv("REPORT_PATH", "./output/soccer.csv"),

		ReportDelimiter:     getEnvRaw("REPORT_DELIMITER", ", "),
		ReportLocale:        getEnv("REPORT_LOCALE", "en"),
		ReportDrawFrequency: getEnvBool("REPORT_DRAW_FREQUENCY", false),

		NSeasons:       getEnvInt("N_SEASONS", 4),
		MFixtures:      getEnvInt("M_FIXTURES", 5),
		InitialSeasons: getEnvInt("INITIAL_SEASONS", 4),

		BaseURL:           getEnv("BASE_URL", "https://www.soccerstats.com"),
		FetchMode:         strings.ToLower(getEnv("FETCH_MODE", "http")),
		MaxConcurrency:    getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:       getEnvInt("RATE_LIMIT_MS", 1500),
		MaxRetries:        getEnvInt("MAX_RETRIES", 3),
		RequestTimeoutSec: getEnvInt("REQUEST_TIMEOUT_SEC", 30),
		ChromeBin:         getEnv("CHROME_BIN", ""),

		CountryFilter: getEnvList("COUNTRY_FILTER"),
		LeagueFilter:  getEnv("LEAGUE_FILTER", ""),
		TeamFilter:    getEnv("TEAM_FILTER", ""),
		IncludeCups:   getEnvBool("INCLUDE_CUPS", false),
		Debug:         getEnvBool("DEBUG", false),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "soccer"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "soccer"),
		PostgresDB:       getEnv("POSTGRES_DB", "soccer"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// UseSQLite reports whether StorePath points at an SQLite database.
func (c *Config) UseSQLite() bool {
	p := strings.ToLower(c.StorePath)
	return strings.HasSuffix(p, ".db") || strings.HasSuffix(p, ".sqlite")
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// getEnvRaw keeps surrounding whitespace, which matters for delimiters.
func getEnvRaw(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
