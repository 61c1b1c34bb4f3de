package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
service:
  id: "test-service"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  host: "0.0.0.0"
  port: 8080
security:
  jwt:
    secret: "test-secret-key-at-least-32-chars!"
groups:
  - name: "Landing Strip"
    entities: ["light-hall-1", "light-hall-2"]
    color_list:
      - "red"
      - [330, 70]
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.ID != "test-service" {
		t.Errorf("Service.ID = %q, want %q", cfg.Service.ID, "test-service")
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}

	if len(cfg.Groups) != 1 {
		t.Fatalf("len(Groups) = %d, want 1", len(cfg.Groups))
	}
	if cfg.Groups[0].Name != "Landing Strip" {
		t.Errorf("Groups[0].Name = %q, want %q", cfg.Groups[0].Name, "Landing Strip")
	}
	if len(cfg.Groups[0].ColorList) != 2 {
		t.Errorf("len(Groups[0].ColorList) = %d, want 2", len(cfg.Groups[0].ColorList))
	}
	if cfg.Groups[0].AvailabilityPolicy != AvailabilityLastWriteWins {
		t.Errorf("AvailabilityPolicy = %q, want default %q",
			cfg.Groups[0].AvailabilityPolicy, AvailabilityLastWriteWins)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_GroupDefaults(t *testing.T) {
	content := `
database:
  path: "/tmp/test.db"
security:
  jwt:
    secret: "test-secret-key-at-least-32-chars!"
groups:
  - entities: ["light-1"]
    color_list: []
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Groups[0].Name != DefaultGroupName {
		t.Errorf("Groups[0].Name = %q, want default %q", cfg.Groups[0].Name, DefaultGroupName)
	}
}

func TestValidate_GroupErrors(t *testing.T) {
	tests := []struct {
		name    string
		group   GroupConfig
		wantErr string
	}{
		{
			name:    "empty entities",
			group:   GroupConfig{Name: "g", ColorList: []any{"red"}},
			wantErr: "entities must be a non-empty list",
		},
		{
			name:    "missing color_list",
			group:   GroupConfig{Name: "g", Entities: []string{"light-1"}},
			wantErr: "color_list is required",
		},
		{
			name: "duplicate entity",
			group: GroupConfig{
				Name:      "g",
				Entities:  []string{"light-1", "light-2", "light-1"},
				ColorList: []any{"red"},
			},
			wantErr: `entities contains duplicate "light-1"`,
		},
		{
			name: "bad availability policy",
			group: GroupConfig{
				Name:               "g",
				Entities:           []string{"light-1"},
				ColorList:          []any{"red"},
				AvailabilityPolicy: "majority",
			},
			wantErr: "availability_policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Security.JWT.Secret = "test-secret-key-at-least-32-chars!"
			cfg.Groups = []GroupConfig{tt.group}

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LUMENGROUP_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("LUMENGROUP_JWT_SECRET", "env-secret-key-at-least-32-chars!!")

	content := `
database:
  path: "/tmp/file.db"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Security.JWT.Secret != "env-secret-key-at-least-32-chars!!" {
		t.Error("JWT secret env override not applied")
	}
}

func TestValidate_MissingJWTSecret(t *testing.T) {
	cfg := defaultConfig()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for missing JWT secret")
	}
	if !strings.Contains(err.Error(), "security.jwt.secret") {
		t.Errorf("Validate() error = %q, want jwt secret error", err)
	}
}
