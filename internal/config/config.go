package config // package config loads application configuration from environment variables

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendMySQL  = "mysql"
	BackendMemory = "memory"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env          string // APP_ENV (dev, test, prod)
	Port         string // APP_PORT
	AppName      string // APP_NAME, prefix of alert headers
	StoreBackend string // STORE_BACKEND: mysql | memory
	DBUser       string // DB_USER
	DBPass       string // DB_PASS (optional)
	DBHost       string // DB_HOST
	DBPort       string // DB_PORT
	DBName       string // DB_NAME
	JWTSecret    string // JWT_SECRET
	AccessTTLMin int    // ACCESS_TOKEN_TTL_MIN
	BcryptCost   int    // BCRYPT_COST
	LogLevel     string // LOG_LEVEL (zerolog level name)
	Events       bool   // EVENTS_ENABLED
	RabbitMQURL  string // RABBITMQ_URL
}

// Load reads configuration values from environment variables.  The first
// missing or malformed required variable is reported as an error; the
// MySQL settings are only required for the mysql backend.
func Load() (Config, error) {
	var e env
	cfg := Config{
		Env:          e.get("APP_ENV", "dev"),
		Port:         e.get("APP_PORT", "8080"),
		AppName:      e.get("APP_NAME", "movieNewsApp"),
		StoreBackend: strings.ToLower(e.get("STORE_BACKEND", BackendMySQL)),
		DBPass:       os.Getenv("DB_PASS"),
		JWTSecret:    e.must("JWT_SECRET"),
		AccessTTLMin: e.intOr("ACCESS_TOKEN_TTL_MIN", 60),
		BcryptCost:   e.intOr("BCRYPT_COST", 10),
		LogLevel:     e.get("LOG_LEVEL", "info"),
		Events:       envBool("EVENTS_ENABLED", false),
		RabbitMQURL:  e.get("RABBITMQ_URL", os.Getenv("AMQP_URL")),
	}
	switch cfg.StoreBackend {
	case BackendMySQL:
		cfg.DBUser = e.must("DB_USER")
		cfg.DBHost = e.must("DB_HOST")
		cfg.DBPort = e.must("DB_PORT")
		cfg.DBName = e.must("DB_NAME")
	case BackendMemory:
	default:
		e.fail(fmt.Errorf("invalid STORE_BACKEND %q: want %s or %s", cfg.StoreBackend, BackendMySQL, BackendMemory))
	}
	if e.err != nil {
		return Config{}, e.err
	}
	return cfg, nil
}

// env records the first lookup failure so Load can read every variable
// in one pass.
type env struct{ err error }

func (e *env) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *env) get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// must retrieves the value of a required environment variable.
func (e *env) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		e.fail(fmt.Errorf("missing required env var: %s", key))
	}
	return v
}

// intOr is like get() but converts the value into an integer.
func (e *env) intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		e.fail(fmt.Errorf("invalid int for %s: %q", key, s))
		return def
	}
	return n
}
