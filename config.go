package publish

import "github.com/goliatone/go-publish/internal/runtimeconfig"

type (
	Config       = runtimeconfig.Config
	ServerConfig = runtimeconfig.ServerConfig
	SiteConfig   = runtimeconfig.SiteConfig
	LocalConfig  = runtimeconfig.LocalConfig
)

// DefaultConfig returns the configuration used when no file exists yet.
func DefaultConfig() Config {
	return runtimeconfig.Default()
}

// LoadConfig reads the configuration file and applies environment overrides.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}

// SaveConfig persists the configuration file.
func SaveConfig(path string, cfg Config) error {
	return runtimeconfig.Save(path, cfg)
}
