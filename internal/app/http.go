package app

import (
	"github.com/yungbote/neurobridge-genui/internal/genui/capability"
	"github.com/yungbote/neurobridge-genui/internal/http"
	httpH "github.com/yungbote/neurobridge-genui/internal/http/handlers"
	"github.com/yungbote/neurobridge-genui/internal/observability"
	"github.com/yungbote/neurobridge-genui/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	GenUI  *httpH.GenUIHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	health := httpH.NewHealthHandler()
	if p, ok := services.Cache.(httpH.Pinger); ok {
		health.WithDependency("tree_cache", p)
	}
	return Handlers{
		Health: health,
		GenUI:  httpH.NewGenUIHandler(log, services.Pipeline, cfg.MaxInputBytes),
	}
}

func wireServer(log *logger.Logger, cfg Config, vocab capability.Provider, metrics *observability.Metrics, handlers Handlers) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:           log,
		ServiceName:   cfg.ServiceName,
		Metrics:       metrics,
		Vocabulary:    vocab,
		GenUIHandler:  handlers.GenUI,
		HealthHandler: handlers.Health,
	})
}
