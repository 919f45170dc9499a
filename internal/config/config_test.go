package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLoader(t *testing.T, dir string, env Environment, vars map[string]string) *Loader {
	t.Helper()
	l := NewLoader(dir, env)
	l.getenv = func(key string) string { return vars[key] }
	return l
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDefault_IsValid(t *testing.T) {
	for _, env := range []Environment{Development, Staging, Production, Test} {
		t.Run(string(env), func(t *testing.T) {
			cfg := Default(env)
			assert.NoError(t, cfg.Validate())
			assert.Equal(t, 1500*time.Millisecond, cfg.Prompt.Latency)
			assert.Equal(t, "Start", cfg.Session.SeedLabel)
		})
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "level must be one of"},
		{name: "zero timeout", mutate: func(c *Config) { c.Prompt.Timeout = 0 }, wantErr: "timeout"},
		{name: "negative latency", mutate: func(c *Config) { c.Prompt.Latency = -time.Second }, wantErr: "latency"},
		{name: "negative max sessions", mutate: func(c *Config) { c.Session.MaxSessions = -1 }, wantErr: "max_sessions"},
		{name: "tracing without endpoint", mutate: func(c *Config) { c.Features.EnableTracing = true }, wantErr: "tracing.endpoint"},
		{
			name: "rule with unknown kind",
			mutate: func(c *Config) {
				c.Prompt.Rules = []RuleConfig{{
					Name:     "bad",
					Keywords: []string{"x"},
					Nodes:    []RuleNodeConfig{{ID: "a", Kind: "spreadsheet"}},
				}}
			},
			wantErr: "not a known node kind",
		},
		{
			name: "rule without keywords",
			mutate: func(c *Config) {
				c.Prompt.Rules = []RuleConfig{{Name: "bad", Nodes: []RuleNodeConfig{{ID: "a", Kind: "entity"}}}}
			},
			wantErr: "keywords is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(Development)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoader_Layering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
server:
  address: ":9000"
prompt:
  latency: 250ms
  rules:
    - name: shop
      keywords: [customer, order]
      nodes:
        - {id: customers, kind: database, label: Customers}
        - {id: orders, kind: database, label: Orders}
      edges:
        - {id: co, source: customers, target: orders, label: places}
generator:
  header: From base
`)
	writeFile(t, dir, "staging.yaml", `
prompt:
  latency: 100ms
`)
	writeFile(t, dir, "local.yaml", `
server:
  address: ":7777"
`)

	cfg, err := newTestLoader(t, dir, Staging, map[string]string{
		"LOG_LEVEL":      "DEBUG",
		"MAX_SESSIONS":   "5",
		"ENABLE_METRICS": "false",
	}).Load()
	require.NoError(t, err)

	assert.Equal(t, Staging, cfg.Environment)
	assert.Equal(t, ":9000", cfg.Server.Address, "local.yaml is development only")
	assert.Equal(t, 100*time.Millisecond, cfg.Prompt.Latency)
	assert.Equal(t, "From base", cfg.Generator.Header)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.Session.MaxSessions)
	assert.False(t, cfg.Features.EnableMetrics)
	require.Len(t, cfg.Prompt.Rules, 1)
	assert.Equal(t, []string{"customer", "order"}, cfg.Prompt.Rules[0].Keywords)
	assert.Len(t, cfg.Prompt.Rules[0].Nodes, 2)
	assert.Equal(t, []string{"defaults", filepath.Join(dir, "base.yaml"), filepath.Join(dir, "staging.yaml"), "environment"}, cfg.LoadedFrom)
}

func TestLoader_DevelopmentReadsLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "local.json", `{"server": {"address": ":7777"}}`)

	cfg, err := newTestLoader(t, dir, Development, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Address)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		vars    map[string]string
		wantErr string
	}{
		{name: "malformed yaml", files: map[string]string{"base.yaml": "server: [oops"}, wantErr: "failed to load base config"},
		{name: "bad duration env", vars: map[string]string{"PROMPT_TIMEOUT": "soon"}, wantErr: "invalid PROMPT_TIMEOUT"},
		{name: "invalid result", vars: map[string]string{"LOG_LEVEL": "chatty"}, wantErr: "configuration validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}
			_, err := newTestLoader(t, dir, Test, tt.vars).Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWatcher_ReloadsInDevelopment(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "prompt:\n  latency: 100ms\n")

	loader := newTestLoader(t, dir, Development, nil)
	initial, err := loader.Load()
	require.NoError(t, err)

	w, err := NewWatcher(loader, initial, zap.NewNop(), WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan *Config, 4)
	w.OnChange(func(c *Config) { changed <- c })

	writeFile(t, dir, "base.yaml", "prompt:\n  latency: 300ms\n")

	select {
	case c := <-changed:
		assert.Equal(t, 300*time.Millisecond, c.Prompt.Latency)
		assert.Equal(t, 300*time.Millisecond, w.Config().Prompt.Latency)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
}

func TestWatcher_InvalidReloadKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "prompt:\n  latency: 100ms\n")

	loader := newTestLoader(t, dir, Development, nil)
	initial, err := loader.Load()
	require.NoError(t, err)

	w, err := NewWatcher(loader, initial, zap.NewNop(), WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer w.Stop()

	writeFile(t, dir, "base.yaml", "logging:\n  level: chatty\n")
	time.Sleep(200 * time.Millisecond)

	assert.Same(t, initial, w.Config())
}

func TestWatcher_DisabledOutsideDevelopment(t *testing.T) {
	cfg := Default(Production)
	w, err := NewWatcher(NewLoader("/does/not/exist", Production), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Same(t, cfg, w.Config())
	w.Stop()
	w.Stop()
}
