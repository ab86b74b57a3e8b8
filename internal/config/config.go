package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/morphonent/morphonent/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file looked up by Load.
	ConfigFileName = "morphonent.yaml"

	// DefaultPort is the default live server port.
	DefaultPort = 8080

	// DefaultHost is the default live server host.
	DefaultHost = "localhost"

	// DefaultApp is the demo app served when none is configured.
	DefaultApp = "counter"

	// DefaultMarker is the hydration marker attribute.
	DefaultMarker = "data-morphonent-id"
)

// Environment variables that override file values.
const (
	EnvPort     = "MORPHONENT_PORT"
	EnvHost     = "MORPHONENT_HOST"
	EnvLogLevel = "MORPHONENT_LOG_LEVEL"
	EnvApp      = "MORPHONENT_APP"
)

// Config represents the complete morphonent configuration.
type Config struct {
	// Name is the project name, used as the page title.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Server contains live server configuration.
	Server ServerConfig `json:"server" yaml:"server"`

	// Render contains markup serializer configuration.
	Render RenderConfig `json:"render" yaml:"render"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Log contains logging configuration.
	Log LogConfig `json:"log" yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains live server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host" yaml:"host" validate:"required"`

	// Port is the port to listen on. 0 picks a free port.
	Port int `json:"port" yaml:"port" validate:"min=0,max=65535"`

	// App is the demo app each session renders.
	App string `json:"app" yaml:"app" validate:"required"`

	// ReadTimeout bounds reading a request, headers included.
	ReadTimeout Duration `json:"readTimeout" yaml:"readTimeout" validate:"gte=0"`

	// WriteTimeout bounds writing a websocket frame.
	WriteTimeout Duration `json:"writeTimeout" yaml:"writeTimeout" validate:"gt=0"`

	// HeartbeatInterval is the ping period on live connections.
	HeartbeatInterval Duration `json:"heartbeatInterval" yaml:"heartbeatInterval" validate:"gt=0"`

	// MaxMessageBytes is the largest client frame accepted.
	MaxMessageBytes int64 `json:"maxMessageBytes" yaml:"maxMessageBytes" validate:"min=256"`

	// AllowedOrigins lists the origins allowed to open live sessions. Empty
	// allows same-origin requests only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
}

// RenderConfig contains markup serializer settings.
type RenderConfig struct {
	// Pretty indents rendered markup. Pretty markup does not hydrate cleanly.
	Pretty bool `json:"pretty,omitempty" yaml:"pretty,omitempty"`

	// Indent is the indentation unit in pretty mode.
	Indent string `json:"indent,omitempty" yaml:"indent,omitempty"`

	// MarkerAttr is the hydration marker attribute.
	MarkerAttr string `json:"markerAttr" yaml:"markerAttr" validate:"required,startswith=data-,excludesall=<>/"`

	// TextMarkers annotates text nodes so mixed content hydrates.
	TextMarkers bool `json:"textMarkers" yaml:"textMarkers"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes metrics on Path.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace" yaml:"namespace" validate:"required"`

	// Path is the scrape endpoint.
	Path string `json:"path" yaml:"path" validate:"required,startswith=/"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`

	// Format is text or json.
	Format string `json:"format" yaml:"format" validate:"oneof=text json"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name: "morphonent",
		Server: ServerConfig{
			Host:              DefaultHost,
			Port:              DefaultPort,
			App:               DefaultApp,
			ReadTimeout:       Duration(10 * time.Second),
			WriteTimeout:      Duration(10 * time.Second),
			HeartbeatInterval: Duration(30 * time.Second),
			MaxMessageBytes:   64 * 1024,
		},
		Render: RenderConfig{
			Indent:      "  ",
			MarkerAttr:  DefaultMarker,
			TextMarkers: true,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "morphonent",
			Path:      "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads morphonent.yaml from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from path. Files ending in .json are decoded
// as JSON, everything else as YAML. Missing fields keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").WithTarget(path)
		}
		return nil, errors.New("E120").WithTarget(path).Wrap(err)
	}

	cfg := New()
	if isJSON(path) {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E120").
			WithTarget(path).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path, as JSON or YAML by extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return errors.New("E120").WithTarget(path).Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").WithTarget(path).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for fields a file left empty.
func (c *Config) applyDefaults() {
	d := New()
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.App == "" {
		c.Server.App = d.Server.App
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = d.Server.WriteTimeout
	}
	if c.Server.HeartbeatInterval == 0 {
		c.Server.HeartbeatInterval = d.Server.HeartbeatInterval
	}
	if c.Server.MaxMessageBytes == 0 {
		c.Server.MaxMessageBytes = d.Server.MaxMessageBytes
	}
	if c.Render.Indent == "" {
		c.Render.Indent = d.Render.Indent
	}
	if c.Render.MarkerAttr == "" {
		c.Render.MarkerAttr = d.Render.MarkerAttr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// ApplyEnv overrides values from the environment, read through lookup
// (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPort); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.New("E121").
				WithTarget(EnvPort).
				WithDetail(fmt.Sprintf("%s must be a port number, got %q", EnvPort, v))
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvHost); ok && v != "" {
		c.Server.Host = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvApp); ok && v != "" {
		c.Server.App = v
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration against its constraints. All failing
// fields are reported in one error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.New("E121").Wrap(err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), describe(fe)))
	}
	return errors.New("E121").
		WithTarget(c.configPath).
		WithDetail("Invalid fields: " + strings.Join(fields, ", ")).
		Wrap(err)
}

func describe(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// Address returns the host:port the live server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Logger builds the slog logger described by the Log section.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.Log.Level)}
	var handler slog.Handler
	if c.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
