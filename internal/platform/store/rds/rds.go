// Package rds opens the shared redis client
package rds

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config configures the redis client
type Config struct {
	Addr     string
	Password string
	DB       int
	// PingTimeout bounds the boot ping, default 2s
	PingTimeout time.Duration
}

// Open dials redis and pings it once; the client is closed again when the ping fails
func Open(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("rds: empty address")
	}
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	to := cfg.PingTimeout
	if to <= 0 {
		to = 2 * time.Second
	}
	pctx, cancel := context.WithTimeout(ctx, to)
	defer cancel()
	if err := c.Ping(pctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("rds: ping %s: %w", cfg.Addr, err)
	}
	return c, nil
}
