package app

import (
	"time"

	"github.com/yungbote/neurobridge-genui/internal/genui/pipeline"
	httpH "github.com/yungbote/neurobridge-genui/internal/http/handlers"
	"github.com/yungbote/neurobridge-genui/internal/observability"
	"github.com/yungbote/neurobridge-genui/internal/platform/envutil"
	"github.com/yungbote/neurobridge-genui/internal/platform/logger"
)

type Config struct {
	Port        string
	LogMode     string
	ServiceName string
	Environment string
	Version     string

	VocabularyFile   string
	VocabularyWatch  bool
	MaxInputBytes    int64
	BatchLimit       int
	BatchConcurrency int

	Cache   CacheConfig
	Tracing observability.TracingConfig
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:             envutil.String("PORT", "8080"),
		LogMode:          envutil.String("LOG_MODE", "development"),
		ServiceName:      envutil.String("OTEL_SERVICE_NAME", "neurobridge-genui"),
		Environment:      envutil.String("APP_ENV", "development"),
		Version:          envutil.String("APP_VERSION", "dev"),
		VocabularyFile:   envutil.String("GENUI_VOCAB_FILE", ""),
		VocabularyWatch:  envutil.Bool("GENUI_VOCAB_WATCH", true),
		MaxInputBytes:    int64(envutil.Int("GENUI_MAX_INPUT_BYTES", int(httpH.DefaultMaxInputBytes))),
		BatchLimit:       envutil.Int("GENUI_BATCH_LIMIT", pipeline.DefaultBatchLimit),
		BatchConcurrency: envutil.Int("GENUI_BATCH_CONCURRENCY", 4),
		Cache: CacheConfig{
			Mode:      CacheMode(envutil.String("GENUI_CACHE_MODE", string(CacheModeMemory))),
			Size:      envutil.Int("GENUI_CACHE_SIZE", 512),
			TTL:       envutil.Duration("GENUI_CACHE_TTL", 10*time.Minute),
			RedisAddr: envutil.String("REDIS_ADDR", ""),
		},
	}
	cfg.Tracing = observability.TracingConfigFromEnv(cfg.ServiceName, cfg.Environment, cfg.Version)
	logger.OrNop(log).Info("Loaded config",
		"port", cfg.Port,
		"cache_mode", cfg.Cache.Mode,
		"vocab_file", cfg.VocabularyFile,
		"vocab_watch", cfg.VocabularyWatch,
		"max_input_bytes", cfg.MaxInputBytes,
		"batch_limit", cfg.BatchLimit,
		"tracing", cfg.Tracing.Exporter,
	)
	return cfg
}
