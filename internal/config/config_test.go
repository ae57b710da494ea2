package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jarcheck.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
platform:
  prefixes: [org.slf4j.]
  names: [com.example.Provided]
entries:
  - com.example.Main
  - com.example.Tool
jobs: 3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Entries) != 2 || cfg.Jobs != 3 {
		t.Errorf("cfg = %+v", cfg)
	}

	c, err := cfg.Classifier()
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"org.slf4j.Logger", "com.example.Provided", "java.lang.Object"} {
		if !c.IsPlatform(name) {
			t.Errorf("IsPlatform(%s) = false", name)
		}
	}
}

func TestReplaceDefaults(t *testing.T) {
	cfg, err := Parse([]byte("platform:\n  prefixes: [kotlin.]\n  replace_defaults: true\n"), "test")
	if err != nil {
		t.Fatal(err)
	}
	c, err := cfg.Classifier()
	if err != nil {
		t.Fatal(err)
	}
	if c.IsPlatform("java.lang.Object") || !c.IsPlatform("kotlin.Unit") {
		t.Errorf("replace_defaults not applied: %v", c.Prefixes())
	}
}

func TestProfile(t *testing.T) {
	cfg, err := Parse([]byte("platform:\n  profile: android\n"), "test")
	if err != nil {
		t.Fatal(err)
	}
	c, err := cfg.Classifier()
	if err != nil {
		t.Fatal(err)
	}
	if !c.IsPlatform("android.os.Bundle") {
		t.Error("android profile not applied")
	}
}

func TestLoadMissingDefault(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") without %s error = %v", DefaultFile, err)
	}
	c, err := cfg.Classifier()
	if err != nil {
		t.Fatal(err)
	}
	if !c.IsPlatform("javax.inject.Inject") {
		t.Error("empty config should use the jdk profile")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "platfrom:\n  prefixes: [a.]\n", "field platfrom not found"},
		{"negative jobs", "jobs: -1\n", "jobs must not be negative"},
		{"unknown profile", "platform:\n  profile: graalvm\n", "unknown runtime profile"},
		{"profile and replace", "platform:\n  profile: jdk\n  replace_defaults: true\n", "mutually exclusive"},
		{"empty entry", "entries: ['']\n", "entries[0] is empty"},
		{"empty prefix", "platform:\n  prefixes: [' ']\n", "prefixes[0] is empty"},
		{"prefix without dot", "platform:\n  prefixes: [org.slf4j., sun]\n", `prefixes[1]: "sun" must end in '.'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for explicitly named missing file")
	}
}

func TestEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load(empty) error = %v", err)
	}
	if cfg.Jobs != 0 || len(cfg.Entries) != 0 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestCheckerOptions(t *testing.T) {
	cfg, err := Parse([]byte("jobs: 4\nplatform:\n  names: [org.example.Provided]\n"), "test")
	if err != nil {
		t.Fatal(err)
	}
	opts, err := cfg.CheckerOptions(0)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Concurrency != 4 || !opts.Classifier.IsPlatform("org.example.Provided") {
		t.Errorf("opts = %+v", opts)
	}
	if opts, _ := cfg.CheckerOptions(2); opts.Concurrency != 2 {
		t.Errorf("jobs flag not applied: %d", opts.Concurrency)
	}
}
