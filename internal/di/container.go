package di

import (
	"context"
	"net/http"

	"github.com/RithishKumarK/supreme/application/services"
	domainservices "github.com/RithishKumarK/supreme/domain/services"
	"github.com/RithishKumarK/supreme/interfaces/http/rest"
	"github.com/RithishKumarK/supreme/interfaces/http/rest/handlers"
	"github.com/RithishKumarK/supreme/interfaces/websocket"
	"github.com/RithishKumarK/supreme/internal/config"
	"github.com/RithishKumarK/supreme/internal/infrastructure/observability"
	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
	"go.uber.org/zap"
)

// Container holds all application dependencies.
// Metrics, Tracing and WebSocketServer are nil when their feature is off.
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	ErrorHandler    *pkgerrors.ErrorHandler
	Metrics         *observability.Collector
	Recorder        services.Recorder
	Tracing         *observability.TracerProvider
	Interpreter     domainservices.PromptInterpreter
	Generator       domainservices.Generator
	SessionOptions  services.SessionOptions
	Sessions        *services.SessionManager
	Hub             *websocket.Hub
	Broadcaster     *websocket.Broadcaster
	WebSocketServer *websocket.Server
	SessionHandler  *handlers.SessionHandler
	Router          *rest.Router
	Handler         http.Handler
}

// Start launches background workers
func (c *Container) Start() {
	if c.WebSocketServer != nil {
		go c.Hub.Run()
	}
}

// ApplyConfig re-applies the hot-reloadable settings: prompt latency,
// timeout and rules, plus the session cap. Other settings need a restart.
func (c *Container) ApplyConfig(cfg *config.Config) error {
	interpreter, err := ProvideInterpreter(cfg)
	if err != nil {
		return err
	}
	opts := ProvideSessionOptions(cfg)
	c.Sessions.Reconfigure(opts, interpreter, cfg.Session.MaxSessions)
	c.Interpreter = interpreter
	c.SessionOptions = opts
	c.Config = cfg
	return nil
}

// Shutdown stops background workers and flushes telemetry
func (c *Container) Shutdown(ctx context.Context) error {
	if c.WebSocketServer != nil {
		c.Hub.Stop()
	}
	if err := c.Tracing.Shutdown(ctx); err != nil {
		c.Logger.Error("Failed to shut down tracing", zap.Error(err))
		return err
	}
	_ = c.Logger.Sync()
	return nil
}
