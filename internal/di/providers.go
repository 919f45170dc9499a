package di

import (
	"context"
	"fmt"
	"net/http"

	"github.com/RithishKumarK/supreme/application/services"
	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
	domainservices "github.com/RithishKumarK/supreme/domain/services"
	"github.com/RithishKumarK/supreme/interfaces/http/rest"
	"github.com/RithishKumarK/supreme/interfaces/http/rest/handlers"
	"github.com/RithishKumarK/supreme/interfaces/websocket"
	"github.com/RithishKumarK/supreme/internal/config"
	"github.com/RithishKumarK/supreme/internal/infrastructure/observability"
	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ============================================================================
// CONFIG PROVIDERS
// ============================================================================

// ProvideLogger builds the zap logger for the configured environment and level
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Logging.Development || cfg.IsDevelopment() {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger.With(zap.String("environment", string(cfg.Environment))), nil
}

// ProvideErrorHandler provides the JSON error writer
func ProvideErrorHandler(logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger)
}

// ============================================================================
// INFRASTRUCTURE PROVIDERS
// ============================================================================

// ProvideMetrics returns nil when metrics are disabled
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.Features.EnableMetrics {
		return nil
	}
	return observability.NewCollector("diagram_sketch")
}

// ProvideRecorder adapts the collector to the session recorder
func ProvideRecorder(metrics *observability.Collector) services.Recorder {
	if metrics == nil {
		return services.NopRecorder{}
	}
	return metrics
}

// ProvideTracing returns nil when tracing is disabled
func ProvideTracing(ctx context.Context, cfg *config.Config) (*observability.TracerProvider, error) {
	if !cfg.Features.EnableTracing {
		return nil, nil
	}
	return observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName: cfg.Tracing.ServiceName,
		Environment: string(cfg.Environment),
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRate:  cfg.Tracing.SampleRate,
		Insecure:    cfg.Tracing.Insecure,
	})
}

// ============================================================================
// DOMAIN PROVIDERS
// ============================================================================

// ProvideInterpreter builds the prompt interpreter from the configured rules
func ProvideInterpreter(cfg *config.Config) (domainservices.PromptInterpreter, error) {
	return services.NewInterpreter(cfg.Prompt.Rules)
}

// ProvideGenerator builds the code generator
func ProvideGenerator(cfg *config.Config) domainservices.Generator {
	return domainservices.NewCodeGenerator(domainservices.WithHeader(cfg.Generator.Header))
}

// ============================================================================
// APPLICATION PROVIDERS
// ============================================================================

// ProvideSessionOptions maps config onto session options
func ProvideSessionOptions(cfg *config.Config) services.SessionOptions {
	return services.SessionOptions{
		Latency:      cfg.Prompt.Latency,
		Timeout:      cfg.Prompt.Timeout,
		SeedLabel:    cfg.Session.SeedLabel,
		SeedPosition: valueobjects.Position{X: cfg.Session.SeedX, Y: cfg.Session.SeedY},
	}
}

// ProvideSessionManager provides the in-memory session registry
func ProvideSessionManager(
	cfg *config.Config,
	interpreter domainservices.PromptInterpreter,
	generator domainservices.Generator,
	opts services.SessionOptions,
	recorder services.Recorder,
	logger *zap.Logger,
) *services.SessionManager {
	return services.NewSessionManager(interpreter, generator, opts, cfg.Session.MaxSessions, recorder, logger)
}

// ============================================================================
// INTERFACE PROVIDERS
// ============================================================================

// ProvideHub provides the WebSocket hub. It is not running until Container.Start.
func ProvideHub(logger *zap.Logger, metrics *observability.Collector) *websocket.Hub {
	if metrics == nil {
		return websocket.NewHub(logger)
	}
	return websocket.NewHub(logger, websocket.WithClientGauge(metrics.SetWebSocketClients))
}

// ProvideBroadcaster provides the session change forwarder
func ProvideBroadcaster(hub *websocket.Hub, logger *zap.Logger) *websocket.Broadcaster {
	return websocket.NewBroadcaster(hub, logger)
}

// ProvideWebSocketServer returns nil when WebSocket push is disabled
func ProvideWebSocketServer(
	cfg *config.Config,
	hub *websocket.Hub,
	manager *services.SessionManager,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *websocket.Server {
	if !cfg.Features.EnableWebSocket {
		return nil
	}
	wsConfig := websocket.DefaultServerConfig()
	wsConfig.CheckOrigin = originChecker(cfg.Server.AllowedOrigins)
	return websocket.NewServer(hub, manager, wsConfig, errorHandler, logger)
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// ProvideSessionHandler provides the REST session handler
func ProvideSessionHandler(
	cfg *config.Config,
	manager *services.SessionManager,
	broadcaster *websocket.Broadcaster,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *handlers.SessionHandler {
	var notifier handlers.SessionNotifier
	if cfg.Features.EnableWebSocket {
		notifier = broadcaster
	}
	return handlers.NewSessionHandler(manager, notifier, logger, errorHandler)
}

// ProvideRouter provides the configured router
func ProvideRouter(
	cfg *config.Config,
	sessionHandler *handlers.SessionHandler,
	wsServer *websocket.Server,
	metrics *observability.Collector,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(sessionHandler, wsServer, metrics, rest.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ServiceName:    cfg.Tracing.ServiceName,
		EnableTracing:  cfg.Features.EnableTracing,
	}, logger)
}

// ProvideHTTPHandler builds the root handler
func ProvideHTTPHandler(router *rest.Router) http.Handler {
	return router.Setup()
}
