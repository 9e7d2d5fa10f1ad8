package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/neurobridge-genui/internal/platform/logger"
)

const keyPrefix = "genui:tree:"

// Redis shares rendered trees between replicas.
type Redis struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedis connects to addr and pings it before returning.
func NewRedis(ctx context.Context, log *logger.Logger, addr string, ttl time.Duration) (*Redis, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{
		log: logger.OrNop(log).With("service", "RedisTreeCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (Entry, bool, error) {
	if r == nil || r.rdb == nil {
		return Entry{}, false, fmt.Errorf("redis tree cache not initialized")
	}
	raw, err := r.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get: %w", err)
	}
	e, err := decode(raw)
	if err != nil {
		r.log.Warn("dropping undecodable cache entry", "key", key, "error", err)
		_ = r.rdb.Del(ctx, keyPrefix+key).Err()
		return Entry{}, false, nil
	}
	return e, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, e Entry) error {
	if r == nil || r.rdb == nil {
		return fmt.Errorf("redis tree cache not initialized")
	}
	raw, err := encode(e)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, keyPrefix+key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	if r == nil || r.rdb == nil {
		return nil
	}
	return r.rdb.Close()
}

func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.rdb == nil {
		return fmt.Errorf("redis tree cache not initialized")
	}
	return r.rdb.Ping(ctx).Err()
}
