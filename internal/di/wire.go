//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/RithishKumarK/supreme/internal/config"
	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideErrorHandler,
	ProvideMetrics,
	ProvideRecorder,
	ProvideTracing,
	ProvideInterpreter,
	ProvideGenerator,
	ProvideSessionOptions,
	ProvideSessionManager,
	ProvideHub,
	ProvideBroadcaster,
	ProvideWebSocketServer,
	ProvideSessionHandler,
	ProvideRouter,
	ProvideHTTPHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
