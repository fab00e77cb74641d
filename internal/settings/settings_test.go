package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SETTINGS_PATH", "")
	t.Setenv("GPS_MONTHLY_FEE", "")
	t.Setenv("SETTLEMENT_CURRENCY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Currency != "PEN" {
		t.Fatalf("currency = %q", cfg.Currency)
	}
	if cfg.GPSMonthlyFee != 0 {
		t.Fatalf("gps fee = %v", cfg.GPSMonthlyFee)
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := "gps_monthly_fee: 15\ncurrency: BOB\nnon_working_days:\n  - 2024-05-01\n  - 2024-12-25\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	t.Setenv("SETTINGS_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GPSMonthlyFee != 15 || cfg.Currency != "BOB" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.NonWorkingDays) != 2 || cfg.NonWorkingDays[0] != "2024-05-01" {
		t.Fatalf("non-working days = %v", cfg.NonWorkingDays)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SETTINGS_PATH", "")
	t.Setenv("GPS_MONTHLY_FEE", "12.5")
	t.Setenv("SETTLEMENT_CURRENCY", "USD")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GPSMonthlyFee != 12.5 || cfg.Currency != "USD" {
		t.Fatalf("cfg = %+v", cfg)
	}
}
