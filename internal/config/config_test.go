package config

import (
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("AUTH_JWT_SECRET", "secret")
		t.Setenv("SERVER_HOST", "")
		t.Setenv("SERVER_PORT", "")
		t.Setenv("REPORT_TIMEZONE", "UTC")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}

		if cfg.Server.Addr != "localhost:5001" {
			t.Errorf("Expected addr localhost:5001, got %s", cfg.Server.Addr)
		}
		if cfg.Reports.Location.String() != "UTC" {
			t.Errorf("Expected UTC location, got %s", cfg.Reports.Location)
		}
		if len(cfg.CORS.AllowedOrigins) != 2 {
			t.Errorf("Expected 2 default origins, got %v", cfg.CORS.AllowedOrigins)
		}
		if cfg.Prices.Concurrency != 4 {
			t.Errorf("Expected concurrency 4, got %d", cfg.Prices.Concurrency)
		}
	})

	t.Run("requires jwt secret", func(t *testing.T) {
		t.Setenv("AUTH_JWT_SECRET", "")

		if _, err := Load(); err == nil {
			t.Error("Expected error when AUTH_JWT_SECRET is missing")
		}
	})

	t.Run("rejects unknown time zone", func(t *testing.T) {
		t.Setenv("AUTH_JWT_SECRET", "secret")
		t.Setenv("REPORT_TIMEZONE", "Mars/Olympus")

		if _, err := Load(); err == nil {
			t.Error("Expected error for invalid REPORT_TIMEZONE")
		}
	})

	t.Run("parses origin list", func(t *testing.T) {
		t.Setenv("AUTH_JWT_SECRET", "secret")
		t.Setenv("REPORT_TIMEZONE", "UTC")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
			t.Errorf("Unexpected origins: %v", cfg.CORS.AllowedOrigins)
		}
	})
}

func TestDatabasePath(t *testing.T) {
	t.Setenv("DB_PATH", "")
	if got := DatabasePath(); got != DefaultDatabasePath {
		t.Errorf("Expected %s, got %s", DefaultDatabasePath, got)
	}

	t.Setenv("DB_PATH", "/tmp/journal.db")
	if got := DatabasePath(); got != "/tmp/journal.db" {
		t.Errorf("Expected /tmp/journal.db, got %s", got)
	}
}

func TestReportLocation(t *testing.T) {
	t.Run("explicit name wins over environment", func(t *testing.T) {
		t.Setenv("REPORT_TIMEZONE", "UTC")

		loc, err := ReportLocation("Asia/Shanghai")
		if err != nil {
			t.Fatalf("ReportLocation() returned unexpected error: %v", err)
		}
		if loc.String() != "Asia/Shanghai" {
			t.Errorf("Expected Asia/Shanghai, got %s", loc)
		}
	})

	t.Run("falls back to environment", func(t *testing.T) {
		t.Setenv("REPORT_TIMEZONE", "UTC")

		loc, err := ReportLocation("")
		if err != nil {
			t.Fatalf("ReportLocation() returned unexpected error: %v", err)
		}
		if loc.String() != "UTC" {
			t.Errorf("Expected UTC, got %s", loc)
		}
	})

	t.Run("defaults to local", func(t *testing.T) {
		t.Setenv("REPORT_TIMEZONE", "")

		loc, err := ReportLocation("")
		if err != nil {
			t.Fatalf("ReportLocation() returned unexpected error: %v", err)
		}
		if loc.String() != DefaultReportTimezone {
			t.Errorf("Expected %s, got %s", DefaultReportTimezone, loc)
		}
	})

	t.Run("rejects unknown zone", func(t *testing.T) {
		if _, err := ReportLocation("Mars/Olympus"); err == nil {
			t.Error("Expected error for unknown zone")
		}
	})
}

func TestRefreshConcurrency(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int
		wantErr bool
	}{
		{"unset uses default", "", DefaultRefreshConcurrency, false},
		{"explicit value", "8", 8, false},
		{"zero", "0", 0, true},
		{"not a number", "many", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PRICE_REFRESH_CONCURRENCY", tt.value)

			got, err := RefreshConcurrency()
			if (err != nil) != tt.wantErr {
				t.Fatalf("RefreshConcurrency() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}
