package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{
			name:     "true value",
			key:      "TEST_BOOL",
			value:    "true",
			def:      false,
			expected: true,
		},
		{
			name:     "false value",
			key:      "TEST_BOOL_FALSE",
			value:    "false",
			def:      true,
			expected: false,
		},
		{
			name:     "invalid value uses default",
			key:      "TEST_BOOL_INVALID",
			value:    "invalid",
			def:      true,
			expected: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_BOOL_MISSING",
			value:    "",
			def:      false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestGetenvFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT", "1.25")
	t.Setenv("TEST_FLOAT_INVALID", "big")

	if got := getenvFloat("TEST_FLOAT", 1); got != 1.25 {
		t.Errorf("getenvFloat() = %v, want 1.25", got)
	}
	if got := getenvFloat("TEST_FLOAT_INVALID", 2); got != 2 {
		t.Errorf("getenvFloat() with invalid value = %v, want default 2", got)
	}
	if got := getenvFloat("TEST_FLOAT_MISSING", 3); got != 3 {
		t.Errorf("getenvFloat() with missing value = %v, want default 3", got)
	}
}

func TestParseAllowedIPs(t *testing.T) {
	got := parseAllowedIPs(` 10.0.0.0/8, "192.168.1.4" ,,`)
	want := []string{"10.0.0.0/8", "192.168.1.4"}
	if len(got) != len(want) {
		t.Fatalf("parseAllowedIPs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parseAllowedIPs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if parseAllowedIPs("") != nil {
		t.Error("parseAllowedIPs(\"\") should be nil")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EASYLAUNCH_FAVORITES_BACKEND", "")
	t.Setenv("EASYLAUNCH_MANIFEST_FILE", "")

	cfg := Load()
	if cfg.FavoritesBackend != BackendSQLite {
		t.Errorf("FavoritesBackend = %q, want %q", cfg.FavoritesBackend, BackendSQLite)
	}
	if filepath.Base(cfg.ManifestFile) != "activities.yaml" {
		t.Errorf("ManifestFile = %q, want an activities.yaml default", cfg.ManifestFile)
	}
	if filepath.Base(cfg.SQLitePath) != "easylaunch.db" {
		t.Errorf("SQLitePath = %q, want an easylaunch.db default", cfg.SQLitePath)
	}
	if cfg.IconSize != 192 || cfg.ReloadInterval != time.Minute {
		t.Errorf("unexpected defaults: icon size %d, reload %v", cfg.IconSize, cfg.ReloadInterval)
	}
}

func TestLoadBackendValidation(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantPanic bool
	}{
		{"memory", map[string]string{"EASYLAUNCH_FAVORITES_BACKEND": "memory"}, false},
		{"upper case accepted", map[string]string{"EASYLAUNCH_FAVORITES_BACKEND": "SQLite"}, false},
		{"unknown backend", map[string]string{"EASYLAUNCH_FAVORITES_BACKEND": "postgres"}, true},
		{"redis without addr", map[string]string{"EASYLAUNCH_FAVORITES_BACKEND": "redis", "EASYLAUNCH_REDIS_ADDR": ""}, true},
		{"redis with addr", map[string]string{"EASYLAUNCH_FAVORITES_BACKEND": "redis", "EASYLAUNCH_REDIS_ADDR": "localhost:6379"}, false},
		{"redis password required", map[string]string{
			"EASYLAUNCH_FAVORITES_BACKEND":       "redis",
			"EASYLAUNCH_REDIS_ADDR":              "localhost:6379",
			"EASYLAUNCH_REDIS_PASSWORD_REQUIRED": "true",
			"EASYLAUNCH_REDIS_PASSWORD":          "",
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			defer func() {
				r := recover()
				if tt.wantPanic && r == nil {
					t.Errorf("Load() should have panicked")
				}
				if !tt.wantPanic && r != nil {
					t.Errorf("Load() panicked: %v", r)
				}
			}()

			Load()
		})
	}
}
