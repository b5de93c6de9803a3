package config

import (
	"fmt"
	"strings"

	"scalebench/internal/benchmark"

	"github.com/spf13/viper"
)

// ValidateConfig validates configuration values and returns an error listing
// every invalid one.
func ValidateConfig() error {
	var errors []string

	if _, err := benchmark.ParseStatistic(viper.GetString("metric")); err != nil {
		errors = append(errors, err.Error())
	}

	if viper.IsSet("repeats") && viper.GetInt("repeats") < 1 {
		errors = append(errors, fmt.Sprintf("repeats must be at least 1, got: %d", viper.GetInt("repeats")))
	}

	if viper.GetString("taskset") == "" {
		errors = append(errors, "taskset must not be empty")
	}

	if viper.GetString("accelerator_suffix") == "" {
		errors = append(errors, "accelerator_suffix must not be empty")
	}

	switch t := strings.ToLower(viper.GetString("archive.type")); t {
	case "sqlite", "sqlite3", "":
	case "postgres", "postgresql":
		if viper.GetBool("archive.enabled") && viper.GetString("archive.dsn") == "" {
			errors = append(errors, "archive.dsn is required for the postgres archive")
		}
	default:
		errors = append(errors, fmt.Sprintf("unsupported archive.type: %s", t))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}
