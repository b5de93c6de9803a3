// Package config loads harness settings from scalebench.yaml, SCALEBENCH_*
// environment variables and bound command line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"scalebench/internal/benchmark"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable names.
const EnvPrefix = "SCALEBENCH"

// Config is the resolved configuration.
type Config struct {
	Verbose bool
	Quiet   bool
	LogFile string

	Taskset           string
	AcceleratorSuffix string
	Metric            benchmark.Statistic
	Repeats           int
	Seed              uint64
	TimePerItem       bool

	MetricsAddr string
	Archive     ArchiveConfig
}

// ArchiveConfig selects the session archive backend.
type ArchiveConfig struct {
	Enabled bool
	Type    string
	DSN     string
}

// SetDefaults registers default values.
func SetDefaults() {
	viper.SetDefault("verbose", false)
	viper.SetDefault("quiet", false)
	viper.SetDefault("log_file", "")
	viper.SetDefault("taskset", benchmark.DefaultTaskset)
	viper.SetDefault("accelerator_suffix", benchmark.DefaultAcceleratorSuffix)
	viper.SetDefault("metric", "median")
	viper.SetDefault("repeats", 1)
	viper.SetDefault("seed", 0)
	viper.SetDefault("time_per_item", false)
	viper.SetDefault("metrics_addr", "")
	viper.SetDefault("archive.enabled", false)
	viper.SetDefault("archive.type", "sqlite")
	viper.SetDefault("archive.dsn", "")
}

// Load reads .env, then cfgFile or ./scalebench.yaml when present, then the
// environment. A missing default file is not an error; a missing explicit
// file is.
func Load(cfgFile string) error {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("scalebench")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}
	slog.Debug("Using config file", "path", viper.ConfigFileUsed())
	return nil
}

// Current resolves and validates the configuration.
func Current() (Config, error) {
	if err := ValidateConfig(); err != nil {
		return Config{}, err
	}
	metric, _ := benchmark.ParseStatistic(viper.GetString("metric"))
	return Config{
		Verbose:           viper.GetBool("verbose"),
		Quiet:             viper.GetBool("quiet"),
		LogFile:           viper.GetString("log_file"),
		Taskset:           viper.GetString("taskset"),
		AcceleratorSuffix: viper.GetString("accelerator_suffix"),
		Metric:            metric,
		Repeats:           viper.GetInt("repeats"),
		Seed:              viper.GetUint64("seed"),
		TimePerItem:       viper.GetBool("time_per_item"),
		MetricsAddr:       viper.GetString("metrics_addr"),
		Archive: ArchiveConfig{
			Enabled: viper.GetBool("archive.enabled"),
			Type:    strings.ToLower(viper.GetString("archive.type")),
			DSN:     viper.GetString("archive.dsn"),
		},
	}, nil
}
