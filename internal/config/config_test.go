package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv(APIBaseEnv, "")
	cfg, err := Load(writeConfig(t, "config.json", `{"server":{},"api":{}}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Listen != defaultListen || cfg.Server.Assets != defaultAssets {
		t.Fatalf("server defaults not applied: %+v", cfg.Server)
	}
	if cfg.API.BaseURL != defaultAPIBase || cfg.API.FiltersPath != "update-filters" || cfg.API.ExamsPath != "get-exams" {
		t.Fatalf("api defaults not applied: %+v", cfg.API)
	}
	if cfg.API.Timeout() != 8*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.API.Timeout())
	}
	if cfg.Log.Level != "info" || cfg.Log.MaxFiles != defaultLogMaxFiles {
		t.Fatalf("log defaults not applied: %+v", cfg.Log)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	t.Setenv(APIBaseEnv, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadYAMLHonoursOverrides(t *testing.T) {
	t.Setenv(APIBaseEnv, "")
	data := `
server:
  listen: 0.0.0.0:9000
  assets: public
api:
  base_url: https://exams.example.com/api/
  exams_path: exams/search
  timeout_seconds: 3
log:
  level: debug
  dir: /tmp/examdeck
`
	cfg, err := Load(writeConfig(t, "config.yaml", data))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Listen != "0.0.0.0:9000" || cfg.Server.Assets != "public" {
		t.Fatalf("server overrides not applied: %+v", cfg.Server)
	}
	if cfg.API.BaseURL != "https://exams.example.com/api" || cfg.API.ExamsPath != "exams/search" || cfg.API.Timeout() != 3*time.Second {
		t.Fatalf("api overrides not applied: %+v", cfg.API)
	}
	if cfg.API.FiltersPath != "update-filters" {
		t.Fatalf("filters path should default, got %q", cfg.API.FiltersPath)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Dir != "/tmp/examdeck" {
		t.Fatalf("log overrides not applied: %+v", cfg.Log)
	}
}

func TestLoadPrefersEnvironmentAPIBase(t *testing.T) {
	t.Setenv(APIBaseEnv, "http://10.0.0.5:8080/")
	cfg, err := Load(writeConfig(t, "config.json", `{"api":{"base_url":"http://ignored"}}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://10.0.0.5:8080" {
		t.Fatalf("expected env override, got %q", cfg.API.BaseURL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv(APIBaseEnv, "")
	cases := map[string]string{
		"relative base": `{"api":{"base_url":"exams.local"}}`,
		"query in path": `{"api":{"exams_path":"get-exams?x=1"}}`,
		"malformed":     `{"api":`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, "config.json", data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
