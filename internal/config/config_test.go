package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/me/probsched/internal/execution"
	"github.com/me/probsched/internal/logging"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Engine.Timeout != execution.DefaultTimeout {
		t.Errorf("Engine.Timeout = %s, want %s", cfg.Engine.Timeout, execution.DefaultTimeout)
	}
	if cfg.Engine.Runtime != RuntimeLocal {
		t.Errorf("Engine.Runtime = %q, want %q", cfg.Engine.Runtime, RuntimeLocal)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv(EnvEngine, "")
	t.Setenv(EnvAddr, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoad_PartialFile(t *testing.T) {
	t.Setenv(EnvEngine, "")
	t.Setenv(EnvAddr, "")
	path := filepath.Join(t.TempDir(), "probsched.yaml")
	data := `
engine:
  runtime: docker
  image: probsched/engine:latest
  timeout: 10s
log:
  format: json
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.Runtime != RuntimeDocker || cfg.Engine.Image != "probsched/engine:latest" {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Engine.Timeout != 10*time.Second {
		t.Errorf("Engine.Timeout = %s, want 10s", cfg.Engine.Timeout)
	}
	if cfg.Engine.Path != DefaultEnginePath {
		t.Errorf("Engine.Path = %q, want default kept", cfg.Engine.Path)
	}
	if cfg.Log.Format != logging.FormatJSON || cfg.Log.Level != "info" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("engine: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvEngine, "/opt/engine/prob_sched")
	t.Setenv(EnvAddr, "127.0.0.1:9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.Path != "/opt/engine/prob_sched" {
		t.Errorf("Engine.Path = %q", cfg.Engine.Path)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"unknown runtime", func(c *Config) { c.Engine.Runtime = "podman" }, `engine.runtime "podman"`},
		{"docker without image", func(c *Config) { c.Engine.Runtime = RuntimeDocker }, "engine.image is required"},
		{"zero timeout", func(c *Config) { c.Engine.Timeout = 0 }, "engine.timeout must be positive"},
		{"empty path", func(c *Config) { c.Engine.Path = "" }, "engine.path is required"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Engine.Timeout = -time.Second
	cfg.Log.Format = "xml"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"engine.timeout", "log.format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestEngineConfig_NewRuntime(t *testing.T) {
	logger := logging.Discard()

	rt, err := Default().Engine.NewRuntime(logger)
	if err != nil {
		t.Fatalf("NewRuntime(local): %v", err)
	}
	if rt.Name() != RuntimeLocal {
		t.Errorf("Name() = %q, want local", rt.Name())
	}

	docker := EngineConfig{Runtime: RuntimeDocker, Image: "probsched/engine"}
	rt, err = docker.NewRuntime(logger)
	if err != nil {
		t.Fatalf("NewRuntime(docker): %v", err)
	}
	if rt.Name() != RuntimeDocker {
		t.Errorf("Name() = %q, want docker", rt.Name())
	}

	if _, err := (EngineConfig{Runtime: RuntimeDocker}).NewRuntime(logger); err == nil {
		t.Error("expected error for docker runtime without image")
	}
}
