package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	config "github.com/inference-gateway/gridpilot/config"
	cobra "github.com/spf13/cobra"
)

func chdirTemp(t *testing.T) string {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "gridpilot-cmd-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change to temp dir: %v", err)
	}
	return tmpDir
}

func TestInitializeProject(t *testing.T) {
	tests := []struct {
		name      string
		existing  bool
		overwrite bool
		wantErr   bool
	}{
		{name: "fresh project", existing: false, overwrite: false, wantErr: false},
		{name: "existing config is kept", existing: true, overwrite: false, wantErr: true},
		{name: "existing config with overwrite", existing: true, overwrite: true, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)

			if tt.existing {
				if err := os.MkdirAll(filepath.Dir(config.DefaultConfigPath), 0755); err != nil {
					t.Fatalf("failed to create config dir: %v", err)
				}
				if err := os.WriteFile(config.DefaultConfigPath, []byte("grid:\n  columns: 8\n"), 0644); err != nil {
					t.Fatalf("failed to seed config: %v", err)
				}
			}

			var out bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&out)
			cmd.Flags().Bool("overwrite", false, "")
			_ = cmd.Flag("overwrite").Value.Set(strconv.FormatBool(tt.overwrite))

			err := initializeProject(cmd)
			if (err != nil) != tt.wantErr {
				t.Fatalf("initializeProject() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			for _, file := range []string{config.DefaultConfigPath, filepath.Join(".gridpilot", ".gitignore")} {
				if _, err := os.Stat(file); os.IsNotExist(err) {
					t.Errorf("expected file %s to exist, but it doesn't", file)
				}
			}

			cfg, err := config.Load(config.DefaultConfigPath)
			if err != nil {
				t.Fatalf("written config does not load: %v", err)
			}
			if cfg.Grid.Columns != 32 || cfg.Grid.Rows != 18 {
				t.Errorf("expected default 32x18 grid, got %dx%d", cfg.Grid.Columns, cfg.Grid.Rows)
			}
			if !strings.Contains(out.String(), "Successfully initialized") {
				t.Errorf("unexpected output: %s", out.String())
			}
		})
	}
}

func TestShowConfig_MasksSecrets(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Vision.APIKey = "sk-secret"
	cfg.Journal.Redis.Password = "hunter2"

	var out bytes.Buffer
	if err := showConfig(&out, cfg); err != nil {
		t.Fatalf("showConfig() error = %v", err)
	}

	text := out.String()
	for _, secret := range []string{"sk-secret", "hunter2"} {
		if strings.Contains(text, secret) {
			t.Errorf("secret %q leaked into output", secret)
		}
	}
	if !strings.Contains(text, "api_key: '********'") && !strings.Contains(text, `api_key: "********"`) {
		t.Errorf("expected masked api key, got:\n%s", text)
	}
	if cfg.Vision.APIKey != "sk-secret" {
		t.Errorf("showConfig must not modify the loaded config")
	}
}
