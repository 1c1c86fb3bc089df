package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Backends understood by the file store factory.
const (
	BackendDrive  = "drive"
	BackendGCS    = "gcs"
	BackendLocal  = "local"
	BackendMemory = "memory"
)

// Config is built once at startup and read-only afterwards.
type Config struct {
	Backend         string        `mapstructure:"backend"`
	Folder          string        `mapstructure:"folder"`
	Bucket          string        `mapstructure:"bucket"`
	CredentialsFile string        `mapstructure:"credentials_file"`
	CredentialsJSON string        `mapstructure:"credentials_json"`
	Marker          string        `mapstructure:"marker"`
	MaxRows         int           `mapstructure:"max_rows"`
	FallbackYear    int           `mapstructure:"fallback_year"`
	RulesFile       string        `mapstructure:"rules_file"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	Concurrency     int           `mapstructure:"concurrency"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	Port            string        `mapstructure:"port"`
	LogLevel        string        `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendDrive)
	v.SetDefault("folder", "")
	v.SetDefault("bucket", "")
	v.SetDefault("credentials_file", "")
	v.SetDefault("credentials_json", "")
	v.SetDefault("rules_file", "")
	v.SetDefault("marker", "Fluxo de Caixa")
	v.SetDefault("max_rows", 35)
	v.SetDefault("fallback_year", time.Now().Year())
	v.SetDefault("cache_ttl", 10*time.Minute)
	v.SetDefault("concurrency", 4)
	v.SetDefault("request_timeout", 2*time.Minute)
	v.SetDefault("port", "3000")
	v.SetDefault("log_level", "info")
}

// Build loads configuration from, in increasing precedence: defaults, the
// config file, a .env file, FLUXO_* environment variables and flags.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("fluxo")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields the selected backend needs.
func (c *Config) Validate() error {
	var problems []string

	switch c.Backend {
	case BackendDrive:
		if c.Folder == "" {
			problems = append(problems, "folder (Drive folder id) is required for the drive backend")
		}
	case BackendGCS:
		if c.Bucket == "" {
			problems = append(problems, "bucket is required for the gcs backend")
		}
	case BackendLocal:
		if c.Folder == "" {
			problems = append(problems, "folder (directory) is required for the local backend")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown backend %q", c.Backend))
	}

	if c.MaxRows < 1 {
		problems = append(problems, fmt.Sprintf("max_rows must be positive, got %d", c.MaxRows))
	}
	if c.Concurrency < 1 {
		problems = append(problems, fmt.Sprintf("concurrency must be positive, got %d", c.Concurrency))
	}
	if c.CacheTTL < 0 {
		problems = append(problems, "cache_ttl cannot be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
