package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/neurobridge-genui/internal/genui/cache"
	"github.com/yungbote/neurobridge-genui/internal/genui/capability"
	"github.com/yungbote/neurobridge-genui/internal/genui/pipeline"
	"github.com/yungbote/neurobridge-genui/internal/observability"
	"github.com/yungbote/neurobridge-genui/internal/platform/logger"
)

type Services struct {
	Vocabulary *capability.Store
	Watcher    *capability.Watcher
	Cache      cache.Cache
	Pipeline   *pipeline.Service
}

func wireVocabulary(log *logger.Logger, path string) (capability.Config, error) {
	if strings.TrimSpace(path) == "" {
		return capability.DefaultConfig(), nil
	}
	cfg, err := capability.LoadConfig(path)
	if err != nil {
		return capability.Config{}, fmt.Errorf("load vocabulary %s: %w", path, err)
	}
	log.Info("Loaded vocabulary tiers", "path", path, "tiers", len(cfg.Tiers()))
	return cfg, nil
}

func wireServices(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	vocab, err := wireVocabulary(log, cfg.VocabularyFile)
	if err != nil {
		return Services{}, err
	}
	store := capability.NewStore(vocab)

	treeCache, err := wireCache(ctx, log, cfg.Cache)
	if err != nil {
		return Services{}, err
	}

	var watcher *capability.Watcher
	if cfg.VocabularyFile != "" && cfg.VocabularyWatch {
		watcher, err = capability.NewWatcher(log, cfg.VocabularyFile, store)
		if err != nil {
			_ = treeCache.Close()
			return Services{}, err
		}
	}

	svc := pipeline.New(log,
		pipeline.WithVocabularyProvider(store),
		pipeline.WithCache(treeCache),
		pipeline.WithMetrics(metrics),
		pipeline.WithBatchLimit(cfg.BatchLimit),
		pipeline.WithBatchConcurrency(cfg.BatchConcurrency),
	)
	return Services{Vocabulary: store, Watcher: watcher, Cache: treeCache, Pipeline: svc}, nil
}

func (s *Services) Close() {
	if s == nil {
		return
	}
	if s.Watcher != nil {
		_ = s.Watcher.Close()
	}
	if s.Cache != nil {
		_ = s.Cache.Close()
	}
}
