package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
    Env           string // application environment (e.g. "dev", "prod")
    Port          string // HTTP port to listen on
    DBPath        string // path to the SQLite database file
    JWTSecret     string // secret used to sign JWTs
    TokenTTLHours int    // issued token time‑to‑live in hours
    BcryptCost    int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  DB_PATH and the
// token TTL fall back to sensible defaults so a bare dev setup only needs
// APP_ENV, APP_PORT and JWT_SECRET.
func Load() Config {
    return Config{
        Env:           must("APP_ENV"),                 // environment (dev/test/prod)
        Port:          must("APP_PORT"),                // port to bind the HTTP server
        DBPath:        getenv("DB_PATH", "library.db"), // SQLite database file
        JWTSecret:     must("JWT_SECRET"),              // secret used for signing JWTs
        TokenTTLHours: intenv("TOKEN_TTL_HOURS", 24),   // TTL for issued tokens in hours
        BcryptCost:    intenv("BCRYPT_COST", 10),       // bcrypt cost factor
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

// intenv is like getenv() but converts the retrieved string into an
// integer, falling back to the default when the variable is unset.  A set
// but malformed value is a configuration mistake and aborts startup.
func intenv(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
