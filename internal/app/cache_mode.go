package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/neurobridge-genui/internal/genui/cache"
	"github.com/yungbote/neurobridge-genui/internal/platform/logger"
)

type CacheMode string

const (
	CacheModeOff    CacheMode = cache.ModeOff
	CacheModeMemory CacheMode = cache.ModeMemory
	CacheModeRedis  CacheMode = cache.ModeRedis
)

type CacheConfig struct {
	Mode      CacheMode
	Size      int
	TTL       time.Duration
	RedisAddr string
}

type CacheConfigErrorCode string

const (
	CacheConfigErrorInvalidMode      CacheConfigErrorCode = "invalid_cache_mode"
	CacheConfigErrorMissingRedisAddr CacheConfigErrorCode = "missing_redis_addr"
	CacheConfigErrorRedisUnreachable CacheConfigErrorCode = "redis_unreachable"
)

type CacheConfigError struct {
	Code  CacheConfigErrorCode
	Mode  CacheMode
	Cause error
}

func (e *CacheConfigError) Error() string {
	if e == nil {
		return "invalid tree cache config"
	}
	return fmt.Sprintf("invalid tree cache config (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *CacheConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveCacheConfig normalizes the mode and checks that the chosen backend is configured.
func resolveCacheConfig(cfg CacheConfig) (CacheConfig, error) {
	cfg.Mode = CacheMode(strings.ToLower(strings.TrimSpace(string(cfg.Mode))))
	switch cfg.Mode {
	case "", "none", "disabled":
		cfg.Mode = CacheModeOff
	case CacheModeOff, CacheModeMemory:
	case CacheModeRedis:
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return CacheConfig{}, &CacheConfigError{
				Code:  CacheConfigErrorMissingRedisAddr,
				Mode:  cfg.Mode,
				Cause: fmt.Errorf("REDIS_ADDR is required when GENUI_CACHE_MODE=redis"),
			}
		}
	default:
		return CacheConfig{}, &CacheConfigError{
			Code:  CacheConfigErrorInvalidMode,
			Mode:  cfg.Mode,
			Cause: fmt.Errorf("unsupported cache mode %q", cfg.Mode),
		}
	}
	if cfg.Size <= 0 {
		cfg.Size = 512
	}
	return cfg, nil
}

func wireCache(ctx context.Context, log *logger.Logger, cfg CacheConfig) (cache.Cache, error) {
	cfg, err := resolveCacheConfig(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Wiring tree cache...", "mode", cfg.Mode, "ttl", cfg.TTL.String())
	switch cfg.Mode {
	case CacheModeMemory:
		return cache.NewMemory(cfg.Size, cfg.TTL), nil
	case CacheModeRedis:
		rc, err := cache.NewRedis(ctx, log, cfg.RedisAddr, cfg.TTL)
		if err != nil {
			return nil, &CacheConfigError{Code: CacheConfigErrorRedisUnreachable, Mode: cfg.Mode, Cause: err}
		}
		return rc, nil
	default:
		return cache.Nop{}, nil
	}
}
