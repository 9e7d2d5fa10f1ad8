package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "GENUI_CACHE_MODE", "GENUI_CACHE_TTL", "GENUI_MAX_INPUT_BYTES", "GENUI_VOCAB_FILE", "GENUI_VOCAB_WATCH"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(nil)
	if cfg.Port != "8080" {
		t.Fatalf("port: want=%q got=%q", "8080", cfg.Port)
	}
	if cfg.Cache.Mode != CacheModeMemory {
		t.Fatalf("cache mode: want=%q got=%q", CacheModeMemory, cfg.Cache.Mode)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Fatalf("cache ttl: want=%s got=%s", 10*time.Minute, cfg.Cache.TTL)
	}
	if cfg.MaxInputBytes != 2<<20 {
		t.Fatalf("max input bytes: want=%d got=%d", 2<<20, cfg.MaxInputBytes)
	}
	if !cfg.VocabularyWatch {
		t.Fatalf("vocab watch: want=true got=false")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GENUI_CACHE_MODE", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("GENUI_CACHE_TTL", "90")
	t.Setenv("GENUI_BATCH_CONCURRENCY", "8")
	t.Setenv("GENUI_VOCAB_WATCH", "false")

	cfg := LoadConfig(nil)
	if cfg.Port != "9090" {
		t.Fatalf("port: want=%q got=%q", "9090", cfg.Port)
	}
	if cfg.Cache.Mode != CacheModeRedis || cfg.Cache.RedisAddr != "redis:6379" {
		t.Fatalf("cache: got %+v", cfg.Cache)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Fatalf("cache ttl: want=%s got=%s", 90*time.Second, cfg.Cache.TTL)
	}
	if cfg.BatchConcurrency != 8 {
		t.Fatalf("batch concurrency: want=8 got=%d", cfg.BatchConcurrency)
	}
	if cfg.VocabularyWatch {
		t.Fatalf("vocab watch: want=false got=true")
	}
}
