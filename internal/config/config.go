// Package config loads application configuration from environment
// variables, with an optional .env file for local development.
package config

import (
    "log"
    "os"
    "strconv"

    "github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Required values are enforced by must();
// a missing one is a configuration error and stops the process before
// it serves a single request.
type Config struct {
    Env               string // application environment (e.g. "dev", "prod")
    Port              string // HTTP port to listen on
    DBUser            string // database username
    DBPass            string // database password (optional)
    DBHost            string // database host address
    DBPort            string // database port number
    DBName            string // database name
    JWTSecret         string // secret used to sign bearer tokens (>=32 bytes, enforced by the codec)
    TokenTTLSeconds   int64  // bearer token lifetime in seconds
    ResetTTLMinutes   int    // password-reset ticket lifetime in minutes
    BcryptCost        int    // bcrypt cost for password hashing
    BootstrapUsername string // seeded admin account username
    BootstrapEmail    string // seeded admin account email
    BootstrapPassword string // seeded admin account password (skip admin seeding when empty)
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() Config {
    _ = godotenv.Load() // absent .env is fine

    return Config{
        Env:               must("APP_ENV"),
        Port:              must("APP_PORT"),
        DBUser:            must("DB_USER"),
        DBPass:            os.Getenv("DB_PASS"),
        DBHost:            must("DB_HOST"),
        DBPort:            must("DB_PORT"),
        DBName:            must("DB_NAME"),
        JWTSecret:         must("JWT_SECRET"),
        TokenTTLSeconds:   int64(mustInt("JWT_EXPIRATION_SECONDS")),
        ResetTTLMinutes:   intOr("RESET_TOKEN_TTL_MIN", 15),
        BcryptCost:        mustInt("BCRYPT_COST"),
        BootstrapUsername: getenv("BOOTSTRAP_ADMIN_USERNAME", "admin"),
        BootstrapEmail:    getenv("BOOTSTRAP_ADMIN_EMAIL", "admin@example.com"),
        BootstrapPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
    }
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an
// integer. If conversion fails, the application logs a fatal error and
// exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// intOr reads an optional integer variable with a default.
func intOr(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, v)
    }
    return n
}

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}
