package config

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/morphonent/morphonent/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Render.MarkerAttr != DefaultMarker {
		t.Errorf("Render.MarkerAttr = %q, want %q", cfg.Render.MarkerAttr, DefaultMarker)
	}
	if cfg.Server.HeartbeatInterval.Std() != 30*time.Second {
		t.Errorf("HeartbeatInterval = %v", cfg.Server.HeartbeatInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	if !stderrors.Is(err, errors.New("E141")) {
		t.Errorf("Load(empty dir) error = %v, want E141", err)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	content := `
name: languages demo
server:
  port: 9090
  app: languages
  heartbeatInterval: 5s
log:
  level: debug
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Name != "languages demo" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.App != "languages" {
		t.Errorf("Server.App = %q", cfg.Server.App)
	}
	if cfg.Server.HeartbeatInterval.Std() != 5*time.Second {
		t.Errorf("HeartbeatInterval = %v, want 5s", cfg.Server.HeartbeatInterval)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.Host != DefaultHost || cfg.Render.MarkerAttr != DefaultMarker || cfg.Log.Format != "text" {
		t.Errorf("defaults lost: host=%q marker=%q format=%q", cfg.Server.Host, cfg.Render.MarkerAttr, cfg.Log.Format)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Path() != filepath.Join(dir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "morphonent.json")
	content := `{"server": {"host": "0.0.0.0", "writeTimeout": "2s"}, "metrics": {"enabled": false}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q", cfg.Server.Host)
	}
	if cfg.Server.WriteTimeout.Std() != 2*time.Second {
		t.Errorf("WriteTimeout = %v", cfg.Server.WriteTimeout)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad yaml", "morphonent.yaml", "server: [unclosed"},
		{"bad json", "morphonent.json", "{"},
		{"bad duration", "morphonent.yaml", "server:\n  heartbeatInterval: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFile(path)
			if !stderrors.Is(err, errors.New("E120")) {
				t.Errorf("LoadFile() error = %v, want E120", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "Config.Server.Port"},
		{"empty app", func(c *Config) { c.Server.App = "" }, "Config.Server.App"},
		{"zero heartbeat", func(c *Config) { c.Server.HeartbeatInterval = 0 }, "Config.Server.HeartbeatInterval"},
		{"marker without data- prefix", func(c *Config) { c.Render.MarkerAttr = "pid" }, "Config.Render.MarkerAttr"},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }, "Config.Log.Level"},
		{"relative metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "Config.Metrics.Path"},
		{"tiny read limit", func(c *Config) { c.Server.MaxMessageBytes = 10 }, "Config.Server.MaxMessageBytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !stderrors.Is(err, errors.New("E121")) {
				t.Fatalf("Validate() error = %v, want E121", err)
			}
			var me *errors.MorphError
			if !stderrors.As(err, &me) || !strings.Contains(me.Detail, tt.field) {
				t.Errorf("Detail = %q, want it to name %s", me.Detail, tt.field)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvPort:     "9999",
		EnvLogLevel: "WARN",
		EnvApp:      "ping",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := New()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9999 || cfg.Log.Level != "warn" || cfg.Server.App != "ping" {
		t.Errorf("env not applied: port=%d level=%q app=%q", cfg.Server.Port, cfg.Log.Level, cfg.Server.App)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Host changed without %s", EnvHost)
	}

	env[EnvPort] = "eighty"
	if err := New().ApplyEnv(lookup); !stderrors.Is(err, errors.New("E121")) {
		t.Errorf("ApplyEnv(bad port) error = %v, want E121", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := New()
			cfg.Name = "saved"
			cfg.Server.AllowedOrigins = []string{"https://example.com"}
			cfg.Server.ReadTimeout = Duration(3 * time.Second)

			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo() error = %v", err)
			}
			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}
			if diff := cmp.Diff(cfg, loaded, cmp.AllowUnexported(Config{})); diff != "" {
				t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
			}
		})
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New().Save(); err == nil {
		t.Error("Save() without a path should fail")
	}
}

func TestAddress(t *testing.T) {
	cfg := New()
	cfg.Server.Host = "::1"
	cfg.Server.Port = 8081
	if got := cfg.Address(); got != "[::1]:8081" {
		t.Errorf("Address() = %q", got)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := New()
	cfg.Log.Level = "warn"
	cfg.Log.Format = "json"
	logger := cfg.Logger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info logged at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("unexpected output %q", out)
	}
}
