package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The types reflect how the values are used:
// strings for identifiers and secrets, durations for the hold and sweep
// policies.
type Config struct {
	Env              string        // application environment (e.g. "dev", "prod")
	Port             string        // HTTP port to listen on
	DBUser           string        // database username
	DBPass           string        // database password (optional)
	DBHost           string        // database host address
	DBPort           string        // database port number
	DBName           string        // database name
	DBMaxOpenConns   int           // connection pool ceiling
	DBMaxIdleConns   int           // idle connections kept warm
	DBConnLifetime   time.Duration // recycle connections after this age
	DBPingTimeout    time.Duration // startup connectivity check deadline
	JWTSecret        string        // secret used to sign service tokens
	TokenTTLMin      int           // service token time-to-live in minutes
	ClientID         string        // client id accepted by the token endpoint
	ClientSecretHash string        // bcrypt hash of the accepted client secret
	HoldTTL          time.Duration // default seat hold lifetime
	SweepInterval    time.Duration // how often the expiry sweeper runs
	LockTimeout      time.Duration // per-row lock acquisition timeout
	CacheTTL         time.Duration // availability cache entry lifetime
	CachePrefix      string        // availability cache key namespace
	AMQPURL          string        // broker URL (optional, defaults inside the queue package)
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		DBUser:           must("DB_USER"),
		DBPass:           os.Getenv("DB_PASS"), // empty allowed
		DBHost:           must("DB_HOST"),
		DBPort:           must("DB_PORT"),
		DBName:           must("DB_NAME"),
		DBMaxOpenConns:   intv("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:   intv("DB_MAX_IDLE_CONNS", 25),
		DBConnLifetime:   dur("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		DBPingTimeout:    dur("DB_PING_TIMEOUT", 5*time.Second),
		JWTSecret:        must("JWT_SECRET"),
		TokenTTLMin:      mustInt("TOKEN_TTL_MIN"),
		ClientID:         must("API_CLIENT_ID"),
		ClientSecretHash: must("API_CLIENT_SECRET_HASH"),
		HoldTTL:          dur("HOLD_TTL", 15*time.Minute),
		SweepInterval:    dur("SWEEP_INTERVAL", 5*time.Minute),
		LockTimeout:      dur("LOCK_TIMEOUT", 5*time.Second),
		CacheTTL:         dur("CACHE_TTL", 30*time.Second),
		CachePrefix:      getenv("CACHE_PREFIX", "inv"),
		AMQPURL:          os.Getenv("RABBITMQ_URL"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// dur reads an optional duration variable, falling back to the default
// when unset or unparseable.
func dur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("invalid duration for %s: %q, using %s", key, v, def)
		return def
	}
	return d
}

// intv reads an optional integer variable, falling back to the default
// when unset or unparseable.
func intv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("invalid int for %s: %q, using %d", key, v, def)
		return def
	}
	return n
}

// getenv returns the variable's value or the default when unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
