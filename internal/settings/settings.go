// Package settings loads business settings from a YAML file with env
// fallbacks. Infrastructure wiring (DSNs, ports, secrets) stays in env
// vars in main; this file carries the numbers the business adjusts.
package settings

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Settings defines business configuration.
type Settings struct {
	GPSMonthlyFee  float64  `yaml:"gps_monthly_fee"`
	Currency       string   `yaml:"currency"`
	NonWorkingDays []string `yaml:"non_working_days"`
}

// Load loads settings from yaml or env. The file path comes from
// SETTINGS_PATH; when unset, env vars and defaults apply.
func Load() (Settings, error) {
	cfg := Settings{
		GPSMonthlyFee: getenvFloatDefault("GPS_MONTHLY_FEE", 0),
		Currency:      getenvDefault("SETTLEMENT_CURRENCY", "PEN"),
	}

	if path := os.Getenv("SETTINGS_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.Currency == "" {
		cfg.Currency = "PEN"
	}
	if cfg.GPSMonthlyFee < 0 {
		return cfg, errors.New("settings: gps monthly fee must not be negative")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
