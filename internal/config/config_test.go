package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:            "8081",
		BindAddr:        "127.0.0.1",
		DataBackend:     "memory",
		DefaultCurrency: "USD",
		LogLevel:        "info",
		LogFormat:       "text",
		ShutdownTimeout: 10 * time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid memory backend config",
			mutate: func(c *Config) {},
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:   "localhost bind address",
			mutate: func(c *Config) { c.BindAddr = "localhost" },
		},
		{
			name:        "invalid bind address",
			mutate:      func(c *Config) { c.BindAddr = "my house" },
			wantErr:     true,
			errorString: "invalid bind address 'my house'",
		},
		{
			name:        "unknown backend",
			mutate:      func(c *Config) { c.DataBackend = "sheets" },
			wantErr:     true,
			errorString: "invalid data backend 'sheets'",
		},
		{
			name: "sqlite without path",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name: "file without directory",
			mutate: func(c *Config) {
				c.DataBackend = "file"
				c.DataDir = ""
			},
			wantErr:     true,
			errorString: "data directory cannot be empty",
		},
		{
			name:        "unsupported currency",
			mutate:      func(c *Config) { c.DefaultCurrency = "XYZ" },
			wantErr:     true,
			errorString: "invalid default currency 'XYZ'",
		},
		{
			name:        "bad log level",
			mutate:      func(c *Config) { c.LogLevel = "chatty" },
			wantErr:     true,
			errorString: "invalid log level 'chatty'",
		},
		{
			name:        "bad log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "shutdown timeout too short",
			mutate:      func(c *Config) { c.ShutdownTimeout = 10 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid shutdown timeout 10ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.LogFormat = "xml"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid port") || !strings.Contains(err.Error(), "invalid log format") {
		t.Errorf("expected both problems in %q", err)
	}
}

func TestConfig_ValidateCreatesDirectories(t *testing.T) {
	base := t.TempDir()

	cfg := validConfig()
	cfg.DataBackend = "sqlite"
	cfg.SQLiteDBPath = filepath.Join(base, "nested", "lumina.db")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	cfg = validConfig()
	cfg.DataBackend = "file"
	cfg.DataDir = filepath.Join(base, "records")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"PORT", "BIND_ADDR", "DATA_BACKEND", "SQLITE_DB_PATH", "DATA_DIR",
			"DEFAULT_CURRENCY", "LOG_LEVEL", "LOG_FORMAT", "SHUTDOWN_TIMEOUT"} {
			t.Setenv(key, "")
		}

		cfg := Load()
		if cfg.Port != "8081" || cfg.BindAddr != "127.0.0.1" {
			t.Errorf("Load() listen = %s:%s", cfg.BindAddr, cfg.Port)
		}
		if cfg.DataBackend != "sqlite" || cfg.SQLiteDBPath != "./data/lumina.db" || cfg.DataDir != "./data" {
			t.Errorf("Load() storage = %s %s %s", cfg.DataBackend, cfg.SQLiteDBPath, cfg.DataDir)
		}
		if cfg.DefaultCurrency != "USD" || cfg.LogLevel != "info" || cfg.LogFormat != "text" {
			t.Errorf("Load() = %+v", cfg)
		}
		if cfg.ShutdownTimeout != 10*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v", cfg.ShutdownTimeout)
		}
		if cfg.Addr() != "127.0.0.1:8081" {
			t.Errorf("Addr() = %s", cfg.Addr())
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DATA_BACKEND", "file")
		t.Setenv("DATA_DIR", "/tmp/lumina")
		t.Setenv("DEFAULT_CURRENCY", "eur")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("SHUTDOWN_TIMEOUT", "3s")

		cfg := Load()
		if cfg.Port != "9090" || cfg.DataBackend != "file" || cfg.DataDir != "/tmp/lumina" {
			t.Errorf("Load() = %+v", cfg)
		}
		if cfg.DefaultCurrency != "EUR" {
			t.Errorf("currency should be upper-cased, got %s", cfg.DefaultCurrency)
		}
		if cfg.LogFormat != "json" || cfg.ShutdownTimeout != 3*time.Second {
			t.Errorf("Load() = %+v", cfg)
		}
	})

	t.Run("unparseable duration falls back", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT", "soon")
		if got := Load().ShutdownTimeout; got != 10*time.Second {
			t.Errorf("ShutdownTimeout = %v", got)
		}
	})
}
