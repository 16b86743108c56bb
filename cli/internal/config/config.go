package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem commands write through; tests swap in a memory fs.
var AppFs = afero.NewOsFs()

// Config holds the CLI configuration.
type Config struct {
	Provider    string
	DatabaseURL string
	Debug       bool
}

// Load reads configuration from the config file, the environment and any
// .env files in the working directory.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".structql")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "structql"))

	viper.SetEnvPrefix("STRUCTQL")
	viper.AutomaticEnv()

	viper.SetDefault("provider", "postgresql")
	viper.SetDefault("debug", false)

	// The config file is optional.
	_ = viper.ReadInConfig()

	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	// .env.local overrides .env.
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	return &Config{
		Provider:    viper.GetString("provider"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Debug:       viper.GetBool("debug"),
	}, nil
}

// Save writes the configuration to $HOME/.config/structql/.structql.yaml.
func Save(cfg *Config) error {
	viper.SetFs(AppFs)
	viper.Set("provider", cfg.Provider)
	viper.Set("debug", cfg.Debug)

	home, err := homedir.Dir()
	if err != nil {
		return err
	}
	configPath := filepath.Join(home, ".config", "structql")
	if err := AppFs.MkdirAll(configPath, 0755); err != nil {
		return err
	}
	return viper.WriteConfigAs(filepath.Join(configPath, ".structql.yaml"))
}
