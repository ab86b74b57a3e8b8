package main

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/morphonent/morphonent/internal/config"
	"github.com/morphonent/morphonent/internal/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionShort(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if out != version+"\n" {
		t.Errorf("output = %q, want %q", out, version+"\n")
	}
}

func TestApps(t *testing.T) {
	out, err := execute(t, "apps")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		got = append(got, strings.TrimSpace(line))
	}
	if diff := cmp.Diff([]string{"counter", "languages", "ping", "transition"}, got); diff != "" {
		t.Errorf("apps mismatch (-want +got):\n%s", diff)
	}
}

func TestRender(t *testing.T) {
	out, err := execute(t, "render", "counter")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`<main id="app" data-morphonent-id="R">`,
		`<span id="count" data-morphonent-id="R/0/1"><!--data-morphonent-id=R/0/1/0-->0</span>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderUnknownApp(t *testing.T) {
	_, err := execute(t, "render", "tetris")
	if !stderrors.Is(err, errors.New("E140")) {
		t.Errorf("error = %v, want E140", err)
	}
}

func TestRenderPageToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ping.html")
	out, err := execute(t, "render", "ping", "--page", "--out", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Wrote "+path) {
		t.Errorf("output = %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "<title>morphonent</title>", `id="pings"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestRenderWithConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := "server:\n  app: languages\nrender:\n  markerAttr: data-pid\n  textMarkers: false\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "render", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `data-pid="R"`) || !strings.Contains(out, "Haskell") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "<!--") {
		t.Errorf("text markers emitted with textMarkers: false")
	}
}

func TestRenderInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: loud\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "render", "--config", path)
	if !stderrors.Is(err, errors.New("E121")) {
		t.Errorf("error = %v, want E121", err)
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, "init", dir); err != nil {
		t.Fatalf("init error = %v", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(config.New(), cfg, cmp.AllowUnexported(config.Config{}), cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".configPath"
	}, cmp.Ignore())); diff != "" {
		t.Errorf("written config differs from defaults (-want +got):\n%s", diff)
	}

	if _, err := execute(t, "init", dir); err == nil {
		t.Error("second init succeeded without --force")
	}
	if _, err := execute(t, "init", dir, "--force"); err != nil {
		t.Errorf("init --force error = %v", err)
	}
}

func TestInitJSON(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, "init", dir, "--json"); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadFile(filepath.Join(dir, "morphonent.json")); err != nil {
		t.Errorf("LoadFile() error = %v", err)
	}
}

func TestServerConfig(t *testing.T) {
	cfg := config.New()
	cfg.Server.Port = 9000
	cfg.Render.MarkerAttr = "data-pid"

	sc := serverConfig(cfg)
	if sc.Address != "localhost:9000" || sc.Marker != "data-pid" || sc.MetricsPath != "/metrics" {
		t.Errorf("serverConfig = %+v", sc)
	}
	if sc.HeartbeatInterval != cfg.Server.HeartbeatInterval.Std() {
		t.Errorf("HeartbeatInterval = %v", sc.HeartbeatInterval)
	}

	cfg.Metrics.Enabled = false
	if got := serverConfig(cfg).MetricsPath; got != "" {
		t.Errorf("MetricsPath = %q with metrics disabled", got)
	}
}
