package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles loading configuration from multiple sources.
type Loader struct {
	basePath    string
	environment Environment
	getenv      func(string) string
	fileLoaders []FileLoader
}

// FileLoader decodes one configuration file format
type FileLoader interface {
	Load(reader io.Reader, target interface{}) error
	Extension() string
}

// NewLoader creates a new configuration loader
func NewLoader(basePath string, env Environment) *Loader {
	if basePath == "" {
		basePath = "config"
	}
	return &Loader{
		basePath:    basePath,
		environment: env,
		getenv:      os.Getenv,
		fileLoaders: []FileLoader{&YAMLLoader{}, &JSONLoader{}},
	}
}

// BasePath returns the directory files are read from
func (l *Loader) BasePath() string {
	return l.basePath
}

// Load loads configuration using a hierarchy of sources.
// The loading order (from lowest to highest priority):
//  1. Default values (in code)
//  2. Base configuration file (base.yaml)
//  3. Environment-specific file (e.g., production.yaml)
//  4. Local overrides file (local.yaml, development only)
//  5. Environment variables
func (l *Loader) Load() (*Config, error) {
	cfg := Default(l.environment)
	sources := []string{"defaults"}

	names := []string{"base", string(l.environment)}
	if l.environment == Development {
		names = append(names, "local")
	}
	for _, name := range names {
		path, err := l.loadFile(name, cfg)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", name, err)
		}
		sources = append(sources, path)
	}

	if err := l.loadEnvironmentVariables(cfg); err != nil {
		return nil, err
	}
	sources = append(sources, "environment")

	// A file may not switch the environment the loader was built for
	cfg.Environment = l.environment
	cfg.LoadedFrom = sources

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes the first existing <name>.<ext> into cfg
func (l *Loader) loadFile(name string, cfg *Config) (string, error) {
	for _, loader := range l.fileLoaders {
		path := filepath.Join(l.basePath, name+"."+loader.Extension())

		file, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", err
		}

		err = loader.Load(file, cfg)
		file.Close()
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return path, nil
	}
	return "", os.ErrNotExist
}

// loadEnvironmentVariables overlays environment variables on the configuration
func (l *Loader) loadEnvironmentVariables(cfg *Config) error {
	if val := l.getenv("SERVER_ADDRESS"); val != "" {
		cfg.Server.Address = val
	}
	if val := l.getenv("ALLOWED_ORIGINS"); val != "" {
		cfg.Server.AllowedOrigins = splitList(val)
	}
	if val := l.getenv("LOG_LEVEL"); val != "" {
		cfg.Logging.Level = strings.ToLower(val)
	}

	durations := map[string]*time.Duration{
		"PROMPT_LATENCY": &cfg.Prompt.Latency,
		"PROMPT_TIMEOUT": &cfg.Prompt.Timeout,
	}
	for key, target := range durations {
		if val := l.getenv(key); val != "" {
			d, err := time.ParseDuration(val)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*target = d
		}
	}

	if val := l.getenv("MAX_SESSIONS"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid MAX_SESSIONS: %w", err)
		}
		cfg.Session.MaxSessions = n
	}
	if val := l.getenv("GENERATOR_HEADER"); val != "" {
		cfg.Generator.Header = val
	}

	flags := map[string]*bool{
		"ENABLE_METRICS":   &cfg.Features.EnableMetrics,
		"ENABLE_TRACING":   &cfg.Features.EnableTracing,
		"ENABLE_WEBSOCKET": &cfg.Features.EnableWebSocket,
	}
	for key, target := range flags {
		if val := l.getenv(key); val != "" {
			*target = parseBool(val)
		}
	}

	if val := l.getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); val != "" {
		cfg.Tracing.Endpoint = val
	}
	if val := l.getenv("OTEL_SERVICE_NAME"); val != "" {
		cfg.Tracing.ServiceName = val
	}
	return nil
}

// YAMLLoader loads configuration from YAML files.
type YAMLLoader struct{}

func (y *YAMLLoader) Load(reader io.Reader, target interface{}) error {
	err := yaml.NewDecoder(reader).Decode(target)
	if errors.Is(err, io.EOF) {
		return nil // empty file
	}
	return err
}

func (y *YAMLLoader) Extension() string {
	return "yaml"
}

// JSONLoader loads configuration from JSON files.
type JSONLoader struct{}

func (j *JSONLoader) Load(reader io.Reader, target interface{}) error {
	return json.NewDecoder(reader).Decode(target)
}

func (j *JSONLoader) Extension() string {
	return "json"
}

func parseBool(s string) bool {
	val, _ := strconv.ParseBool(s)
	return val
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load reads configuration for the environment named by ENVIRONMENT from
// CONFIG_DIR (default ./config).
func Load() (*Config, error) {
	return NewLoader(os.Getenv("CONFIG_DIR"), EnvironmentFromEnv()).Load()
}
