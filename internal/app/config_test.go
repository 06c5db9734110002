package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateFillsDefaults(t *testing.T) {
	cfg := Config{DataDir: t.TempDir()}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Storage.Engine != "sqlite" || cfg.Media.Backend != "local" || cfg.UI.StyleVariant != "night_sky" || cfg.LogLevel != "info" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestValidateResolvesDataDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.HasSuffix(cfg.DataDir, filepath.Join(".local", "share", "stargazer")) {
		t.Fatalf("unexpected data dir %q", cfg.DataDir)
	}
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cases := map[string]func(*Config){
		"engine":    func(c *Config) { c.Storage.Engine = "redis" },
		"backend":   func(c *Config) { c.Media.Backend = "s3" },
		"style":     func(c *Config) { c.UI.StyleVariant = "neon" },
		"log level": func(c *Config) { c.LogLevel = "loud" },
		"minio":     func(c *Config) { c.Media.Backend = "minio"; c.Media.Endpoint = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = t.TempDir()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadConfigFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stargazer.yaml")
	body := `data_dir: /tmp/sky
storage:
  engine: json
  strict: true
media:
  backend: minio
  endpoint: localhost:9000
  bucket: photos
ui:
  style_variant: red_light
  ascii_only: true
  skip_intro: true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := LoadConfigFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	want := DefaultConfig()
	want.DataDir = "/tmp/sky"
	want.Storage = StorageConfig{Engine: "json", Strict: true}
	want.Media = MediaConfig{Backend: "minio", Endpoint: "localhost:9000", Bucket: "photos"}
	want.UI = UIConfig{StyleVariant: "red_light", ASCIIOnly: true, SkipIntro: true}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
	if cfg.policy() != "strict" {
		t.Fatalf("expected strict policy")
	}
}

func TestLoadConfigFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("telescope: big\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := LoadConfigFile(path, &cfg); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"STARGAZER_STORE":     "memory",
		"STARGAZER_STRICT":    "true",
		"STARGAZER_STYLE":     "aurora",
		"MINIO_ENDPOINT":      "minio:9000",
		"MINIO_USE_SSL":       "1",
		"STARGAZER_LOG_LEVEL": "",
	}
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(env); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.Storage.Engine != "memory" || !cfg.Storage.Strict || cfg.UI.StyleVariant != "aurora" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Media.Endpoint != "minio:9000" || !cfg.Media.UseSSL {
		t.Fatalf("minio env not applied: %+v", cfg.Media)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("empty env value must keep the default, got %q", cfg.LogLevel)
	}

	env["STARGAZER_ASCII"] = "sometimes"
	if err := cfg.ApplyEnv(env); err == nil {
		t.Fatalf("expected bool parse error")
	}
}

func TestTerminalEffectsRingsBell(t *testing.T) {
	var buf bytes.Buffer
	fx := NewTerminalEffects(&buf, nil)
	fx.Vibrate()
	fx.SetMusic(true)
	if buf.String() != "\a" || fx.Buzzes() != 1 || !fx.MusicOn() {
		t.Fatalf("unexpected effects state %q %d %v", buf.String(), fx.Buzzes(), fx.MusicOn())
	}
}
