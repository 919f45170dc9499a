// Package config loads the service configuration from defaults, YAML or JSON
// files and environment variables, and can watch the files for changes.
package config

import (
	"os"
	"strings"
	"time"

	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
	"github.com/RithishKumarK/supreme/pkg/validation"
)

// Environment represents the deployment environment
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
	Test        Environment = "test"
)

// Config is the complete service configuration
type Config struct {
	Environment Environment `yaml:"environment" json:"environment" validate:"required,oneof=development staging production test"`
	Server      Server      `yaml:"server" json:"server"`
	Logging     Logging     `yaml:"logging" json:"logging"`
	Prompt      Prompt      `yaml:"prompt" json:"prompt"`
	Generator   Generator   `yaml:"generator" json:"generator"`
	Session     Session     `yaml:"session" json:"session"`
	Features    Features    `yaml:"features" json:"features"`
	Tracing     Tracing     `yaml:"tracing" json:"tracing"`

	// LoadedFrom lists the sources applied, lowest priority first
	LoadedFrom []string `yaml:"-" json:"-"`
}

// Server holds HTTP listener settings
type Server struct {
	Address         string        `yaml:"address" json:"address" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" json:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" validate:"gt=0"`
	AllowedOrigins  []string      `yaml:"allowed_origins" json:"allowed_origins" validate:"dive,required"`
}

// Logging configures the zap logger
type Logging struct {
	Level       string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development" json:"development"`
}

// Prompt configures prompt handling
type Prompt struct {
	// Latency is the simulated assistant delay before a prompt is interpreted
	Latency time.Duration `yaml:"latency" json:"latency" validate:"gte=0"`
	// Timeout bounds a single interpretation
	Timeout time.Duration `yaml:"timeout" json:"timeout" validate:"gt=0"`
	Rules   []RuleConfig  `yaml:"rules" json:"rules" validate:"dive"`
}

// RuleConfig is one keyword rule for the prompt interpreter
type RuleConfig struct {
	Name     string           `yaml:"name" json:"name" validate:"required"`
	Keywords []string         `yaml:"keywords" json:"keywords" validate:"required,min=1,dive,required"`
	Reply    string           `yaml:"reply" json:"reply"`
	Nodes    []RuleNodeConfig `yaml:"nodes" json:"nodes" validate:"required,min=1,dive"`
	Edges    []RuleEdgeConfig `yaml:"edges" json:"edges" validate:"dive"`
}

// RuleNodeConfig is a node produced by a rule
type RuleNodeConfig struct {
	ID    string  `yaml:"id" json:"id" validate:"required"`
	Kind  string  `yaml:"kind" json:"kind" validate:"required,nodekind"`
	Label string  `yaml:"label" json:"label"`
	X     float64 `yaml:"x" json:"x"`
	Y     float64 `yaml:"y" json:"y"`
}

// RuleEdgeConfig is an edge produced by a rule
type RuleEdgeConfig struct {
	ID     string `yaml:"id" json:"id" validate:"required"`
	Source string `yaml:"source" json:"source" validate:"required"`
	Target string `yaml:"target" json:"target" validate:"required"`
	Label  string `yaml:"label" json:"label"`
}

// Generator configures code generation
type Generator struct {
	Header string `yaml:"header" json:"header"`
}

// Session configures editor sessions
type Session struct {
	SeedLabel string  `yaml:"seed_label" json:"seed_label" validate:"required"`
	SeedX     float64 `yaml:"seed_x" json:"seed_x"`
	SeedY     float64 `yaml:"seed_y" json:"seed_y"`
	// MaxSessions caps concurrently open sessions; 0 means unlimited
	MaxSessions int `yaml:"max_sessions" json:"max_sessions" validate:"gte=0"`
}

// Features contains feature flags for the application
type Features struct {
	EnableMetrics   bool `yaml:"enable_metrics" json:"enable_metrics"`
	EnableTracing   bool `yaml:"enable_tracing" json:"enable_tracing"`
	EnableWebSocket bool `yaml:"enable_websocket" json:"enable_websocket"`
}

// Tracing configures the OTLP exporter
type Tracing struct {
	Endpoint    string  `yaml:"endpoint" json:"endpoint"`
	ServiceName string  `yaml:"service_name" json:"service_name" validate:"required"`
	SampleRate  float64 `yaml:"sample_rate" json:"sample_rate" validate:"gte=0,lte=1"`
	Insecure    bool    `yaml:"insecure" json:"insecure"`
}

// Validate checks struct tags plus cross-field rules
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	if c.Features.EnableTracing && c.Tracing.Endpoint == "" {
		return pkgerrors.NewValidationError("tracing.endpoint is required when tracing is enabled")
	}
	return nil
}

// IsDevelopment reports whether the config targets local development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// Default returns a configuration that runs without any files
func Default(env Environment) *Config {
	if env == "" {
		env = Development
	}
	return &Config{
		Environment: env,
		Server: Server{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Logging: Logging{
			Level:       "info",
			Development: env == Development,
		},
		Prompt: Prompt{
			Latency: 1500 * time.Millisecond,
			Timeout: 5 * time.Second,
		},
		Generator: Generator{
			Header: "Generated TypeScript code",
		},
		Session: Session{
			SeedLabel:   "Start",
			SeedX:       250,
			SeedY:       25,
			MaxSessions: 1000,
		},
		Features: Features{
			EnableMetrics:   true,
			EnableWebSocket: true,
		},
		Tracing: Tracing{
			ServiceName: "diagram-sketch",
			SampleRate:  0.1,
			Insecure:    true,
		},
	}
}

// EnvironmentFromEnv reads ENVIRONMENT, defaulting to development
func EnvironmentFromEnv() Environment {
	switch env := Environment(strings.ToLower(os.Getenv("ENVIRONMENT"))); env {
	case Development, Staging, Production, Test:
		return env
	default:
		return Development
	}
}
