package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".pdforce"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for pdforce settings.
const envPrefix = "PDFORCE"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("search.types", DefaultTypes)
	viperCfg.SetDefault("search.min_length", DefaultMinLength)
	viperCfg.SetDefault("search.max_length", DefaultMaxLength)
	viperCfg.SetDefault("search.digits", 0)
	viperCfg.SetDefault("search.case", DefaultCase)
	viperCfg.SetDefault("search.symbols", false)
	viperCfg.SetDefault("search.wordlist", "")
	viperCfg.SetDefault("search.workers", 0)
	viperCfg.SetDefault("search.chunk_size", DefaultChunkSize)

	viperCfg.SetDefault("checkpoint.dir", DefaultStateDir)
	viperCfg.SetDefault("checkpoint.save_interval", DefaultSaveInterval)
	viperCfg.SetDefault("checkpoint.ignore", false)

	viperCfg.SetDefault("metrics.enabled", false)
	viperCfg.SetDefault("metrics.addr", DefaultMetricsAddr)

	viperCfg.SetDefault("output.silent", false)
	viperCfg.SetDefault("output.file", "")
	viperCfg.SetDefault("output.log_file", "")
}

// SaveConfig writes the effective configuration to path so it becomes the
// default for later runs. An empty path targets .pdforce.yaml in the user's
// home directory.
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}

		path = filepath.Join(home, configName+"."+configType)
	}

	viperCfg := viper.New()
	viperCfg.SetConfigType(configType)

	viperCfg.Set("search.types", cfg.Search.Types)
	viperCfg.Set("search.min_length", cfg.Search.MinLength)
	viperCfg.Set("search.max_length", cfg.Search.MaxLength)
	viperCfg.Set("search.digits", cfg.Search.Digits)
	viperCfg.Set("search.case", cfg.Search.Case)
	viperCfg.Set("search.symbols", cfg.Search.Symbols)
	viperCfg.Set("search.wordlist", cfg.Search.Wordlist)
	viperCfg.Set("search.workers", cfg.Search.Workers)
	viperCfg.Set("search.chunk_size", cfg.Search.ChunkSize)

	viperCfg.Set("checkpoint.dir", cfg.Checkpoint.Dir)
	viperCfg.Set("checkpoint.save_interval", cfg.Checkpoint.SaveInterval.String())

	viperCfg.Set("metrics.enabled", cfg.Metrics.Enabled)
	viperCfg.Set("metrics.addr", cfg.Metrics.Addr)

	viperCfg.Set("output.silent", cfg.Output.Silent)
	viperCfg.Set("output.file", cfg.Output.File)
	viperCfg.Set("output.log_file", cfg.Output.LogFile)

	err := viperCfg.WriteConfigAs(path)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}
