package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"stargazer/internal/media"
	"stargazer/internal/state"
	"stargazer/internal/telemetry"
	"stargazer/internal/ui"
)

// Config controls runtime behavior for the TUI and the CLI commands.
// Environment variables override the file; empty values are ignored.
type Config struct {
	DataDir     string        `yaml:"data_dir" env:"STARGAZER_DATA_DIR"`
	LogPath     string        `yaml:"log_path" env:"STARGAZER_LOG_PATH"`
	LogLevel    string        `yaml:"log_level" env:"STARGAZER_LOG_LEVEL"`
	CatalogPath string        `yaml:"catalog_path" env:"STARGAZER_CATALOG"`
	DebugLayout bool          `yaml:"debug_layout" env:"STARGAZER_DEBUG_LAYOUT"`
	Storage     StorageConfig `yaml:"storage"`
	Media       MediaConfig   `yaml:"media"`
	UI          UIConfig      `yaml:"ui"`
}

type StorageConfig struct {
	Engine string `yaml:"engine" env:"STARGAZER_STORE"`
	Strict bool   `yaml:"strict" env:"STARGAZER_STRICT"`
}

type MediaConfig struct {
	Backend   string `yaml:"backend" env:"STARGAZER_MEDIA_BACKEND"`
	Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"MINIO_BUCKET"`
	UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL"`
}

type UIConfig struct {
	StyleVariant string `yaml:"style_variant" env:"STARGAZER_STYLE"`
	ASCIIOnly    bool   `yaml:"ascii_only" env:"STARGAZER_ASCII"`
	SkipIntro    bool   `yaml:"skip_intro" env:"STARGAZER_SKIP_INTRO"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Storage: StorageConfig{
			Engine: state.EngineSQLite,
		},
		Media: MediaConfig{
			Backend: media.BackendLocal,
			Bucket:  "stargazer",
		},
		UI: UIConfig{
			StyleVariant: ui.StyleNightSky,
		},
	}
}

// LoadConfigFile overlays the YAML file at path on top of cfg. Unknown keys
// are rejected.
func LoadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays the given environment on c. A nil map reads the process
// environment.
func (c *Config) ApplyEnv(environ map[string]string) error {
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Engine) {
	case "", state.EngineSQLite, state.EngineJSON, state.EngineMemory:
	default:
		return fmt.Errorf("invalid storage engine %q", c.Storage.Engine)
	}
	c.Storage.Engine = strings.ToLower(c.Storage.Engine)
	if c.Storage.Engine == "" {
		c.Storage.Engine = state.EngineSQLite
	}

	switch strings.ToLower(c.Media.Backend) {
	case "", media.BackendLocal:
		c.Media.Backend = media.BackendLocal
	case media.BackendMinio:
		c.Media.Backend = media.BackendMinio
		if c.Media.Endpoint == "" {
			return errors.New("media backend minio requires an endpoint")
		}
		if c.Media.Bucket == "" {
			c.Media.Bucket = "stargazer"
		}
	default:
		return fmt.Errorf("invalid media backend %q", c.Media.Backend)
	}

	switch c.UI.StyleVariant {
	case "", ui.StyleNightSky, ui.StyleAurora, ui.StyleRedLight:
	default:
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}
	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = ui.StyleNightSky
	}

	if _, err := telemetry.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "stargazer")
	}

	return nil
}

func (c Config) policy() string {
	if c.Storage.Strict {
		return "strict"
	}
	return "best_effort"
}

func (c Config) mediaConfig() media.Config {
	return media.Config{
		Backend: c.Media.Backend,
		DataDir: c.DataDir,
		Minio: media.MinioConfig{
			Endpoint:  c.Media.Endpoint,
			AccessKey: c.Media.AccessKey,
			SecretKey: c.Media.SecretKey,
			Bucket:    c.Media.Bucket,
			UseSSL:    c.Media.UseSSL,
		},
	}
}
