// Package config loads probsched settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/me/probsched/internal/execution"
	"github.com/me/probsched/internal/logging"
)

// Environment overrides, applied after the file.
const (
	EnvEngine = "PROBSCHED_ENGINE"
	EnvAddr   = "PROBSCHED_ADDR"
)

// DefaultEnginePath is where the engine build puts its executable.
const DefaultEnginePath = "./_build/default/bin/prob_sched.exe"

// Runtime names.
const (
	RuntimeLocal  = "local"
	RuntimeDocker = "docker"
)

// Config is the full probsched configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

// EngineConfig says how the simulation engine is run.
type EngineConfig struct {
	Path    string        `yaml:"path"`
	Runtime string        `yaml:"runtime"` // local or docker
	Image   string        `yaml:"image"`   // required for docker
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig holds configuration for the probsched API server.
type ServerConfig struct {
	Addr    string `yaml:"addr"`    // Listen address (default ":8080")
	Metrics bool   `yaml:"metrics"` // Serve /metrics
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Path:    DefaultEnginePath,
			Runtime: RuntimeLocal,
			Timeout: execution.DefaultTimeout,
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Metrics: true,
		},
	}
}

// Load reads path over the defaults and then applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.LookupEnv)
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvEngine); ok && v != "" {
		c.Engine.Path = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var errs []error
	if c.Engine.Path == "" {
		errs = append(errs, errors.New("engine.path is required"))
	}
	switch c.Engine.Runtime {
	case RuntimeLocal:
	case RuntimeDocker:
		if c.Engine.Image == "" {
			errs = append(errs, errors.New("engine.image is required for the docker runtime"))
		}
	default:
		errs = append(errs, fmt.Errorf("engine.runtime %q is not one of %s, %s", c.Engine.Runtime, RuntimeLocal, RuntimeDocker))
	}
	if c.Engine.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("engine.timeout must be positive, got %s", c.Engine.Timeout))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if !logging.ValidFormat(c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format %q is not one of %s, %s", c.Log.Format, logging.FormatText, logging.FormatJSON))
	}
	return errors.Join(errs...)
}

// NewRuntime builds the engine runtime c selects. The docker runtime is only
// registered when an image is configured.
func (c EngineConfig) NewRuntime(logger *slog.Logger) (execution.Runtime, error) {
	reg := execution.NewRegistry(logger)
	reg.Register(&execution.LocalRuntime{})
	if c.Image != "" {
		reg.Register(execution.NewDockerRuntime(c.Image))
	}
	rt, err := reg.Get(c.Runtime)
	if err != nil {
		return nil, fmt.Errorf("%w (have %v)", err, reg.Names())
	}
	return rt, nil
}
