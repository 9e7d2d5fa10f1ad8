package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/neurobridge-genui/internal/genui/capability"
	httpH "github.com/yungbote/neurobridge-genui/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-genui/internal/http/middleware"
	"github.com/yungbote/neurobridge-genui/internal/observability"
	"github.com/yungbote/neurobridge-genui/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	Metrics     *observability.Metrics
	Vocabulary  capability.Provider

	GenUIHandler  *httpH.GenUIHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.RequestIDs())
	r.Use(httpMW.Observe(cfg.Log, cfg.Metrics))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	// Metrics
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api/genui")
	api.Use(httpMW.ParseCapabilities(cfg.Vocabulary))
	{
		if cfg.GenUIHandler != nil {
			api.POST("/produce", cfg.GenUIHandler.Produce)
			api.POST("/produce/batch", cfg.GenUIHandler.ProduceBatch)
			api.GET("/skeleton", cfg.GenUIHandler.Skeleton)
			api.GET("/capabilities", cfg.GenUIHandler.Capabilities)
		}
	}

	return r
}
