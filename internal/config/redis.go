package config

// Redis backs the response cache and the rate limiter.  Both are
// optional: when no server is reachable at startup the constructor
// returns nil and the middleware layer runs without them.

import (
    "context"
    "crypto/tls"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client from the environment and pings it once.
// Recognized variables:
//   REDIS_ADDR – host:port of the server
//   REDIS_HOST / REDIS_PORT – set together, they override REDIS_ADDR
//   REDIS_PASSWORD – optional password
//   REDIS_DB – database number (default 0)
//   REDIS_TLS – enable TLS when "true" or "1"
// Returns nil when the ping fails.
func NewRedisClient() *redis.Client {
    addr := os.Getenv("REDIS_ADDR")
    if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
        addr = host + ":" + port
    }
    if addr == "" {
        addr = "localhost:6379"
    }

    dbNum := 0
    if s := os.Getenv("REDIS_DB"); s != "" {
        if n, err := strconv.Atoi(s); err == nil {
            dbNum = n
        }
    }

    opts := &redis.Options{
        Addr:     addr,
        Password: os.Getenv("REDIS_PASSWORD"),
        DB:       dbNum,
    }
    if v := os.Getenv("REDIS_TLS"); v == "1" || strings.EqualFold(v, "true") {
        opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
    }

    client := redis.NewClient(opts)
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        return nil
    }
    return client
}
