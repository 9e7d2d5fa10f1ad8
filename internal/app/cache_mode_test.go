package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/neurobridge-genui/internal/genui/cache"
	"github.com/yungbote/neurobridge-genui/internal/platform/logger"
)

func TestResolveCacheConfigModes(t *testing.T) {
	cases := []struct {
		in   CacheMode
		want CacheMode
	}{
		{in: "", want: CacheModeOff},
		{in: "none", want: CacheModeOff},
		{in: "OFF", want: CacheModeOff},
		{in: " Memory ", want: CacheModeMemory},
	}
	for _, tc := range cases {
		cfg, err := resolveCacheConfig(CacheConfig{Mode: tc.in})
		if err != nil {
			t.Fatalf("resolveCacheConfig(%q): %v", tc.in, err)
		}
		if cfg.Mode != tc.want {
			t.Fatalf("mode(%q): want=%q got=%q", tc.in, tc.want, cfg.Mode)
		}
		if cfg.Size != 512 {
			t.Fatalf("size: want=512 got=%d", cfg.Size)
		}
	}
}

func TestResolveCacheConfigRedisRequiresAddr(t *testing.T) {
	_, err := resolveCacheConfig(CacheConfig{Mode: CacheModeRedis})
	if err == nil {
		t.Fatalf("resolveCacheConfig: expected error, got nil")
	}
	var got *CacheConfigError
	if !errors.As(err, &got) {
		t.Fatalf("expected *CacheConfigError, got %T", err)
	}
	if got.Code != CacheConfigErrorMissingRedisAddr {
		t.Fatalf("code: want=%q got=%q", CacheConfigErrorMissingRedisAddr, got.Code)
	}
}

func TestResolveCacheConfigRejectsUnknownMode(t *testing.T) {
	_, err := resolveCacheConfig(CacheConfig{Mode: "memcached"})
	var got *CacheConfigError
	if !errors.As(err, &got) {
		t.Fatalf("expected *CacheConfigError, got %T (%v)", err, err)
	}
	if got.Code != CacheConfigErrorInvalidMode {
		t.Fatalf("code: want=%q got=%q", CacheConfigErrorInvalidMode, got.Code)
	}
}

func TestWireCacheBackends(t *testing.T) {
	log := logger.NewNop()

	c, err := wireCache(context.Background(), log, CacheConfig{Mode: CacheModeMemory, Size: 8, TTL: time.Minute})
	if err != nil {
		t.Fatalf("wireCache(memory): %v", err)
	}
	if _, ok := c.(*cache.Memory); !ok {
		t.Fatalf("memory mode: got %T", c)
	}

	c, err = wireCache(context.Background(), log, CacheConfig{Mode: CacheModeOff})
	if err != nil {
		t.Fatalf("wireCache(off): %v", err)
	}
	if _, ok := c.(cache.Nop); !ok {
		t.Fatalf("off mode: got %T", c)
	}
}
