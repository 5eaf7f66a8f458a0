package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Name       string `mapstructure:"name"`
	Checkpoint struct {
		Dir    string `mapstructure:"dir"`
		Prefix string `mapstructure:"prefix"`
	} `mapstructure:"checkpoint"`
}

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := "name: loader\ncheckpoint:\n  dir: /tmp/ckpt\n  prefix: run\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg testConfig
	if err := Load("loader", &cfg, WithConfigFile(path)); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "loader" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Checkpoint.Dir != "/tmp/ckpt" || cfg.Checkpoint.Prefix != "run" {
		t.Errorf("checkpoint = %+v", cfg.Checkpoint)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := "checkpoint:\n  dir: /tmp/from-yaml\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHECKPOINT_DIR", "/tmp/from-env")

	var cfg testConfig
	if err := Load("loader", &cfg, WithConfigFile(path)); err != nil {
		t.Fatal(err)
	}
	if cfg.Checkpoint.Dir != "/tmp/from-env" {
		t.Errorf("env should override yaml, got %q", cfg.Checkpoint.Dir)
	}
}

func TestLoad_MissingFilesIsFine(t *testing.T) {
	var cfg testConfig
	if err := Load("nosuch", &cfg, WithConfigFile(""), WithFileSystem(&fakeFS{})); err != nil {
		t.Fatalf("absent files should not fail: %v", err)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("CHECKPOINT_DIR")
	want := map[string]bool{"checkpoint_dir": false, "checkpoint.dir": false}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("variant %q missing from %v", k, variants)
		}
	}
	if got := envKeyVariants("HOME"); len(got) != 1 || got[0] != "home" {
		t.Errorf("single-part key variants = %v", got)
	}
}

func TestBaseConfig_Validate(t *testing.T) {
	cfg := BaseConfig{Name: "loader"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaulted config should validate: %v", err)
	}
	if !cfg.Debug {
		t.Error("development environment should enable debug")
	}
	cfg.Environment = "nowhere"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown environment should be rejected")
	}
	cfg = BaseConfig{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("missing name should be rejected")
	}
}

// fakeFS reports every path absent so Load exercises the no-file path.
type fakeFS struct{}

func (f *fakeFS) Exists(string) bool   { return false }
func (f *fakeFS) LoadEnv(string) error { return nil }
