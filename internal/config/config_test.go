// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.cue")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	// Point the config dir lookup at an empty location so a developer's
	// real config cannot interfere.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GONIX_NIX_BIN", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NixBin != "" || cfg.Timeout != 0 {
		t.Errorf("unexpected non-default config: %+v", cfg)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
	}
}

func TestLoadExplicitFile(t *testing.T) {
	t.Setenv("GONIX_NIX_BIN", "")

	path := writeConfigFile(t, `
nix_bin: "/opt/nix/bin/nix"
global_args: ["--extra-experimental-features", "flakes nix-command"]
timeout: "30s"
stderr_limit: 1024
log_level: "debug"
env: {NIX_CONFIG: "experimental-features = flakes"}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NixBin != "/opt/nix/bin/nix" {
		t.Errorf("NixBin = %q", cfg.NixBin)
	}
	want := []string{"--extra-experimental-features", "flakes nix-command"}
	if !reflect.DeepEqual(cfg.GlobalArgs, want) {
		t.Errorf("GlobalArgs = %q, want %q", cfg.GlobalArgs, want)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.StderrLimit != 1024 {
		t.Errorf("StderrLimit = %d, want 1024", cfg.StderrLimit)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Env["NIX_CONFIG"] != "experimental-features = flakes" {
		t.Errorf("Env = %v", cfg.Env)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Load missing file: err = %v", err)
	}
}

func TestLoadRejectsSchemaViolation(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `log_level: "shouting"`)
	if _, err := Load(path); err == nil {
		t.Error("Load accepted a value outside the schema")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `nix_bin: "/from/file"`)
	t.Setenv("GONIX_NIX_BIN", "/from/env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NixBin != "/from/env" {
		t.Errorf("NixBin = %q, want /from/env", cfg.NixBin)
	}
}

func TestClientConfigMapsGlobalArgsAsRaw(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		NixBin:     "/opt/nix",
		GlobalArgs: []string{"--quiet", "--option", "warn-dirty false"},
		Timeout:    time.Minute,
	}

	cc := cfg.ClientConfig(nil)
	if cc.Path != "/opt/nix" || cc.Timeout != time.Minute {
		t.Errorf("ClientConfig = %+v", cc)
	}
	if len(cc.GlobalArgs) != 3 {
		t.Fatalf("GlobalArgs count = %d, want 3", len(cc.GlobalArgs))
	}
	for i, a := range cc.GlobalArgs {
		if got := a.Values(); len(got) != 1 || got[0] != cfg.GlobalArgs[i] {
			t.Errorf("GlobalArgs[%d] = %v, want raw %q", i, got, cfg.GlobalArgs[i])
		}
	}
}
