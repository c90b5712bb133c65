// Package runtimeconfig loads and persists the publishing configuration:
// remote server credentials, site identity, and local workspace paths.
//
// Configuration lives in a JSON file. Credentials can additionally come from
// the environment (optionally via a .env file), which always wins over the
// file so secrets never need to be written to disk.
package runtimeconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// Default locations and ports.
const (
	DefaultFile     = "config.json"
	DefaultFTPPort  = 21
	DefaultSFTPPort = 22
)

// Environment variables overriding the server section. Set these instead of
// storing credentials in the config file.
const (
	EnvHost     = "PUBLISH_HOST"
	EnvUsername = "PUBLISH_USERNAME"
	EnvPassword = "PUBLISH_PASSWORD"
	EnvKeyFile  = "PUBLISH_KEY_FILE"
	EnvPort     = "PUBLISH_PORT"
)

// ServerConfig describes the remote host and how to authenticate against it.
type ServerConfig struct {
	Protocol   string `json:"protocol"`
	Host       string `json:"host"`
	Port       int    `json:"port"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	KeyFile    string `json:"key_file"`
	RemotePath string `json:"remote_path"`
}

// SiteConfig is the public identity of the generated site.
type SiteConfig struct {
	Name   string `json:"name"`
	Author string `json:"author"`
	// AutoIndex is kept for config-file compatibility. The listing page is
	// regenerated on every publish regardless of its value.
	AutoIndex bool `json:"auto_index"`
}

// LocalConfig holds workspace paths.
type LocalConfig struct {
	ArticlesPath string `json:"articles_path"`
	ExportPath   string `json:"export_path"`
}

// Config is the full runtime configuration.
type Config struct {
	Server ServerConfig `json:"server"`
	Site   SiteConfig   `json:"site"`
	Local  LocalConfig  `json:"local"`
}

// Default returns the configuration used when no file exists yet.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Protocol:   "ftp",
			Port:       DefaultFTPPort,
			RemotePath: "/var/www/html/webRetro",
		},
		Site: SiteConfig{
			Name:      "Cualquier Tiempo Pasado Fue Anterior",
			Author:    "Admin",
			AutoIndex: true,
		},
		Local: LocalConfig{
			ArticlesPath: "./articles",
			ExportPath:   "./export",
		},
	}
}

// Load reads the configuration file, falling back to defaults when it does
// not exist, and then applies environment overrides. A .env file in the
// working directory is honored when present.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultFile
	}

	cfg := Default()
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run: defaults plus environment.
	case err != nil:
		return Config{}, fmt.Errorf("runtimeconfig: read %s: %w", path, err)
	default:
		// The file decodes over a zero port so normalize can tell an
		// omitted port apart from the ftp default.
		cfg.Server.Port = 0
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("runtimeconfig: parse %s: %w", path, err)
		}
	}

	_ = godotenv.Load()
	applyEnv(&cfg)
	cfg.normalize()
	return cfg, nil
}

// Save writes the configuration file with stable formatting.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultFile
	}
	encoded, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("runtimeconfig: encode: %w", err)
	}
	if err := os.WriteFile(path, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("runtimeconfig: write %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvHost); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv(EnvUsername); v != "" {
		cfg.Server.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		cfg.Server.Password = v
	}
	if v := os.Getenv(EnvKeyFile); v != "" {
		cfg.Server.KeyFile = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

// normalize fills protocol-dependent defaults so the rest of the system can
// rely on a complete server section.
func (c *Config) normalize() {
	c.Server.Protocol = strings.ToLower(strings.TrimSpace(c.Server.Protocol))
	if c.Server.Protocol == "" {
		c.Server.Protocol = "ftp"
	}
	if c.Server.Port == 0 {
		if c.Server.Protocol == "sftp" {
			c.Server.Port = DefaultSFTPPort
		} else {
			c.Server.Port = DefaultFTPPort
		}
	}
}

// Validate checks that the configuration is complete enough to reach the
// remote host. Workflows call this before any network activity.
func (c Config) Validate() error {
	return c.Server.validate()
}

func (s ServerConfig) validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Protocol,
			validation.Required.Error("protocol is required"),
			validation.In("ftp", "sftp").Error("protocol must be ftp or sftp"),
		),
		validation.Field(&s.Host,
			validation.Required.Error("server host is not configured"),
		),
		validation.Field(&s.Port,
			validation.Required.Error("server port is required"),
			validation.Min(1), validation.Max(65535),
		),
		validation.Field(&s.Username,
			validation.Required.Error("server username is not configured"),
		),
		validation.Field(&s.RemotePath,
			validation.Required.Error("remote path is not configured"),
		),
	)
}
