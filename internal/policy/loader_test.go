package policy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "copt.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPolicy_Success(t *testing.T) {
	path := writePolicy(t, `
version: 1
rules:
  TERMINATE_IDLE:
    enabled: false
    confidence: low
  DOWNSIZE_UNDERUTILIZED:
    params:
      cpu_threshold: 25
      default_savings_rate: 0.4
downsizing:
  m5.xlarge:
    to: m5.large
    savings: 70
pricing:
  m5.large: 70.08
enforcement:
  fail_on_confidence: high
`)

	cfg, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Version != 1 {
		t.Fatalf("expected version 1")
	}

	rc := cfg.Rules["TERMINATE_IDLE"]
	if rc.Enabled == nil || *rc.Enabled != false {
		t.Fatalf("expected TERMINATE_IDLE enabled=false")
	}
	if rc.Confidence != "low" {
		t.Fatalf("expected confidence low")
	}

	if got := cfg.Rules["DOWNSIZE_UNDERUTILIZED"].Params["cpu_threshold"]; got != 25 {
		t.Fatalf("cpu_threshold = %v; want 25", got)
	}

	if got := cfg.Downsizing["m5.xlarge"]; got.To != "m5.large" || got.Savings != 70 {
		t.Fatalf("downsizing entry = %+v", got)
	}

	if cfg.Pricing["m5.large"] != 70.08 {
		t.Fatalf("pricing entry not parsed")
	}

	if cfg.Enforcement == nil || cfg.Enforcement.FailOnConfidence != "high" {
		t.Fatalf("enforcement block not parsed")
	}
}

func TestLoadPolicy_InvalidVersion(t *testing.T) {
	path := writePolicy(t, "version: 2\n")

	_, err := LoadPolicy(path)
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion; got %v", err)
	}
}

func TestLoadPolicy_MissingFile(t *testing.T) {
	_, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped os.ErrNotExist; got %v", err)
	}
}

func TestLoadPolicy_MalformedYAML(t *testing.T) {
	path := writePolicy(t, "version: [1\n")
	if _, err := LoadPolicy(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParsePolicy_InitialisesMaps(t *testing.T) {
	cfg, err := ParsePolicy([]byte("version: 1\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Rules == nil || cfg.Downsizing == nil || cfg.Pricing == nil {
		t.Fatal("empty sections must be initialised")
	}
}
