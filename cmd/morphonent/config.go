package main

import (
	"os"
	"time"

	"github.com/morphonent/morphonent/internal/config"
	"github.com/morphonent/morphonent/pkg/server"
)

// loadConfig reads the configuration named by path, or morphonent.yaml in
// the working directory when path is empty, or the defaults when neither
// exists. Environment overrides are applied on top.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case path != "":
		cfg, err = config.LoadFile(path)
	case config.Exists("."):
		cfg, err = config.Load(".")
	default:
		cfg = config.New()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// serverConfig maps the file configuration onto the server's.
func serverConfig(cfg *config.Config) *server.ServerConfig {
	sc := &server.ServerConfig{
		Address:           cfg.Address(),
		Title:             cfg.Name,
		ReadTimeout:       cfg.Server.ReadTimeout.Std(),
		WriteTimeout:      cfg.Server.WriteTimeout.Std(),
		HeartbeatInterval: cfg.Server.HeartbeatInterval.Std(),
		ShutdownTimeout:   10 * time.Second,
		MaxMessageBytes:   cfg.Server.MaxMessageBytes,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		Marker:            cfg.Render.MarkerAttr,
		TextMarkers:       cfg.Render.TextMarkers,
		Pretty:            cfg.Render.Pretty,
		MetricsNamespace:  cfg.Metrics.Namespace,
	}
	if cfg.Metrics.Enabled {
		sc.MetricsPath = cfg.Metrics.Path
	}
	return sc
}
