package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"DisasterPipeline/internal/domain"
)

const (
	configPathEnv = "MESSAGE_ETL_CONFIG"
	logLevelEnv   = "MESSAGE_ETL_LOG_LEVEL"
	ifExistsEnv   = "MESSAGE_ETL_IF_EXISTS"
	strictEnv     = "MESSAGE_ETL_STRICT"
	batchSizeEnv  = "MESSAGE_ETL_BATCH_SIZE"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Input    InputConfig    `yaml:"input"`
	Cleaning CleaningConfig `yaml:"cleaning"`
	Storage  StorageConfig  `yaml:"storage"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// InputConfig describes how the two source files are parsed and joined.
type InputConfig struct {
	Delimiter string `yaml:"delimiter"`
	JoinKey   string `yaml:"joinKey"`
}

// DelimiterRune returns the field delimiter; Validate guarantees one rune.
func (i InputConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(i.Delimiter)
	return r
}

// CleaningConfig locates the packed categories and toggles strict parsing.
type CleaningConfig struct {
	Field     string `yaml:"field"`
	Separator string `yaml:"separator"`
	Strict    bool   `yaml:"strict"`
}

// StorageConfig controls how the destination table is written.
type StorageConfig struct {
	IfExists  string `yaml:"ifExists"`
	BatchSize int    `yaml:"batchSize"`
}

// Load reads YAML configuration from path, or from MESSAGE_ETL_CONFIG when
// path is empty, and applies environment overrides.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	if utf8.RuneCountInString(c.Input.Delimiter) != 1 {
		return fmt.Errorf("input delimiter %q must be a single character: %w", c.Input.Delimiter, domain.ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Input.JoinKey) == "" {
		return fmt.Errorf("join key is empty: %w", domain.ErrInvalidConfig)
	}
	if c.Cleaning.Field == "" || c.Cleaning.Separator == "" {
		return fmt.Errorf("cleaning field and separator are required: %w", domain.ErrInvalidConfig)
	}
	if c.Storage.BatchSize <= 0 {
		return fmt.Errorf("storage batchSize %d: %w", c.Storage.BatchSize, domain.ErrInvalidConfig)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(ifExistsEnv); v != "" {
		c.Storage.IfExists = v
	}

	if v := os.Getenv(strictEnv); v != "" {
		if strict, err := strconv.ParseBool(v); err == nil {
			c.Cleaning.Strict = strict
		} else {
			log.Printf("config: ignoring %s=%q: %v", strictEnv, v, err)
		}
	}

	if v := os.Getenv(batchSizeEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Storage.BatchSize = n
		} else {
			log.Printf("config: ignoring %s=%q: %v", batchSizeEnv, v, err)
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Input.Delimiter != "" {
		base.Input.Delimiter = override.Input.Delimiter
	}
	if override.Input.JoinKey != "" {
		base.Input.JoinKey = override.Input.JoinKey
	}

	if override.Cleaning.Field != "" {
		base.Cleaning.Field = override.Cleaning.Field
	}
	if override.Cleaning.Separator != "" {
		base.Cleaning.Separator = override.Cleaning.Separator
	}
	if override.Cleaning.Strict {
		base.Cleaning.Strict = true
	}

	if override.Storage.IfExists != "" {
		base.Storage.IfExists = override.Storage.IfExists
	}
	if override.Storage.BatchSize != 0 {
		base.Storage.BatchSize = override.Storage.BatchSize
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Input:    InputConfig{Delimiter: ",", JoinKey: "id"},
		Cleaning: CleaningConfig{Field: "categories", Separator: ";"},
		Storage:  StorageConfig{IfExists: "fail", BatchSize: 500},
	}
}
