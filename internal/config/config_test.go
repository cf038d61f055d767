package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.MaxParallelism != 64 {
		t.Errorf("MaxParallelism = %d, want 64", d.MaxParallelism)
	}
	if d.ARPPrimeFanout != 192 {
		t.Errorf("ARPPrimeFanout = %d, want 192", d.ARPPrimeFanout)
	}
	if d.ARPPrimeHostLimit != 2048 {
		t.Errorf("ARPPrimeHostLimit = %d, want 2048", d.ARPPrimeHostLimit)
	}
	if d.ICMPHostTimeout.Duration() != 450*time.Millisecond {
		t.Errorf("ICMPHostTimeout = %s, want 450ms", d.ICMPHostTimeout.Duration())
	}
	if d.ReverseDNSTimeout.Duration() != 700*time.Millisecond {
		t.Errorf("ReverseDNSTimeout = %s, want 700ms", d.ReverseDNSTimeout.Duration())
	}
	if d.HTTPFingerprintBudget.Duration() != 2600*time.Millisecond {
		t.Errorf("HTTPFingerprintBudget = %s, want 2.6s", d.HTTPFingerprintBudget.Duration())
	}
}

func TestLoadFromPath_PartialOverrideMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taposcan.yaml")
	content := "max_parallelism: 16\nicmp_host_timeout: 900ms\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, gotPath, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if gotPath != path {
		t.Errorf("path = %q, want %q", gotPath, path)
	}
	if cfg.MaxParallelism != 16 {
		t.Errorf("MaxParallelism = %d, want 16", cfg.MaxParallelism)
	}
	if cfg.ICMPHostTimeout.Duration() != 900*time.Millisecond {
		t.Errorf("ICMPHostTimeout = %s, want 900ms", cfg.ICMPHostTimeout.Duration())
	}
	// Untouched fields keep their default values.
	if cfg.ARPPrimeFanout != 192 {
		t.Errorf("ARPPrimeFanout = %d, want default 192", cfg.ARPPrimeFanout)
	}
	if cfg.ReverseDNSTimeout.Duration() != 700*time.Millisecond {
		t.Errorf("ReverseDNSTimeout = %s, want default 700ms", cfg.ReverseDNSTimeout.Duration())
	}
}

func TestLoad_NoConfigFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	os.Unsetenv(EnvConfigPath)

	cfg, path, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if cfg.MaxParallelism != Defaults().MaxParallelism {
		t.Errorf("expected defaults when no config file is present")
	}
}

func TestFindConfigPath_ExplicitEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("max_parallelism: 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)

	if got := FindConfigPath(); got != path {
		t.Errorf("FindConfigPath() = %q, want %q", got, path)
	}
}
