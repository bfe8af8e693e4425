package buildmanager

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/bfgbuilds/buildmanager/buildmanager/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log     LogConfig     `toml:"log"`
	Web     WebConfig     `toml:"web"`
	Storage StorageConfig `toml:"storage"`
	Uploads UploadsConfig `toml:"uploads"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type WebConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// PublicURL is the externally reachable base URL, used to turn relative
	// upload paths into absolute links in Discord embeds.
	PublicURL     string `toml:"public_url"`
	SessionSecret string `toml:"session_secret"`
}

// StorageConfig selects the persistence backend. Driver "memory" runs
// everything from process memory, which is handy for local development
// without a Postgres instance.
type StorageConfig struct {
	Driver string            `toml:"driver"`
	DB     database.DBConfig `toml:"db"`
}

type UploadsConfig struct {
	// Dir is the local directory images land in when Spaces is not
	// configured.
	Dir    string       `toml:"dir"`
	Spaces SpacesConfig `toml:"spaces"`
}

type SpacesConfig struct {
	Key    string `toml:"key"`
	Secret string `toml:"secret"`
	Region string `toml:"region"`
	Bucket string `toml:"bucket"`
}

func (c *SpacesConfig) Enabled() bool {
	return c.Key != "" && c.Secret != "" && c.Bucket != ""
}

func (c *Config) applyDefaults() {
	if c.Web.Port == 0 {
		c.Web.Port = 5000
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Uploads.Dir == "" {
		c.Uploads.Dir = "uploads"
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
}
