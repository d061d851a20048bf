package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8087" {
		t.Errorf("Expected Port to be 8087, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Cache.Backend != "file" {
		t.Errorf("Expected cache backend to be file, got %s", cfg.Cache.Backend)
	}

	if cfg.Engine.Workers != 8 {
		t.Errorf("Expected Engine.Workers to be 8, got %d", cfg.Engine.Workers)
	}

	if cfg.Engine.DefaultTopN != 5 {
		t.Errorf("Expected Engine.DefaultTopN to be 5, got %d", cfg.Engine.DefaultTopN)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("ENGINE_WORKERS", "16")
	os.Setenv("PROVIDER_TIMEOUT", "3s")
	os.Setenv("LOG_LEVEL", "info")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("ENGINE_WORKERS")
		os.Unsetenv("PROVIDER_TIMEOUT")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Engine.Workers != 16 {
		t.Errorf("Expected Engine.Workers to be 16, got %d", cfg.Engine.Workers)
	}

	if cfg.Provider.Timeout.Seconds() != 3 {
		t.Errorf("Expected Provider.Timeout to be 3s, got %s", cfg.Provider.Timeout)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel to be info, got %s", cfg.LogLevel)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "invalid env",
			env:  map[string]string{"ENV": "testing"},
		},
		{
			name: "unknown cache backend",
			env:  map[string]string{"CACHE_BACKEND": "memcache"},
		},
		{
			name: "postgres backend without url",
			env:  map[string]string{"CACHE_BACKEND": "postgres"},
		},
		{
			name: "redis backend without redis enabled",
			env:  map[string]string{"CACHE_BACKEND": "redis"},
		},
		{
			name: "zero workers",
			env:  map[string]string{"ENGINE_WORKERS": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				os.Setenv(k, v)
			}
			defer func() {
				for k := range tt.env {
					os.Unsetenv(k)
				}
			}()

			if _, err := Load(); err == nil {
				t.Errorf("Load() should have failed for %s", tt.name)
			}
		})
	}
}
