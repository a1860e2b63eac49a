package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// isolate points config and the file store at a fresh temp directory and
// clears environment overrides, returning the directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("COPT_STORE", "file")
	t.Setenv("COPT_STORE_PATH", filepath.Join(dir, "resources.json"))
	t.Setenv("COPT_POLICY", "")
	t.Setenv("COPT_LOG_LEVEL", "error")
	t.Setenv("COPT_LOG_FORMAT", "json")
	t.Setenv("COPT_METRICS_TEXTFILE", "")
	return dir
}

// run executes the root command with args against the isolated directory.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", filepath.Join(dir, "config.yaml")}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := run(t, dir, args...)
	if err != nil {
		t.Fatalf("copt %s: %v\noutput:\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ── resources ────────────────────────────────────────────────────────────────

func TestResourcesSeed_Idempotent(t *testing.T) {
	dir := isolate(t)

	out := mustRun(t, dir, "resources", "seed")
	if !strings.Contains(out, "8 created, 0 updated") {
		t.Errorf("first seed output = %q", out)
	}
	out = mustRun(t, dir, "resources", "seed")
	if !strings.Contains(out, "0 created, 8 updated") {
		t.Errorf("second seed output = %q", out)
	}
}

func TestResourcesListAndShow(t *testing.T) {
	dir := isolate(t)
	mustRun(t, dir, "resources", "seed")

	out := mustRun(t, dir, "resources", "list")
	for _, name := range []string{"web-server-1", "database-storage"} {
		if !strings.Contains(out, name) {
			t.Errorf("list output missing %q\n%s", name, out)
		}
	}

	out = mustRun(t, dir, "resources", "show", "1", "--format", "json")
	var res models.Resource
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if res.ID != 1 || res.Name != "web-server-1" {
		t.Errorf("show 1 = %d/%s", res.ID, res.Name)
	}
}

func TestResourcesShow_NotFound(t *testing.T) {
	dir := isolate(t)
	_, err := run(t, dir, "resources", "show", "999")
	if err == nil || err.Error() != "resource 999 not found" {
		t.Errorf("err = %v; want resource 999 not found", err)
	}
	_, err = run(t, dir, "resources", "show", "abc")
	if err == nil || !strings.Contains(err.Error(), "invalid resource id") {
		t.Errorf("err = %v; want invalid resource id", err)
	}
}

func TestResourcesImportAndDelete(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "fleet.yaml", `
- name: batch-1
  resource_type: compute
  provider: gcp
  instance_type: n2-standard-8
  cpu_utilization: 5
  memory_utilization: 10
  monthly_cost: 200
`)

	out := mustRun(t, dir, "resources", "import", path)
	if !strings.Contains(out, "1 created") {
		t.Errorf("import output = %q", out)
	}
	out = mustRun(t, dir, "resources", "delete", "1")
	if !strings.Contains(out, "Deleted resource 1.") {
		t.Errorf("delete output = %q", out)
	}
	if _, err := run(t, dir, "resources", "delete", "1"); err == nil {
		t.Error("deleting a missing resource must fail")
	}
}

func TestResourcesImport_InvalidFileImportsNothing(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "bad.yaml", `
- name: broken
  resource_type: compute
  provider: aws
  instance_type: t3.micro
  cpu_utilization: 150
  monthly_cost: -5
`)
	if _, err := run(t, dir, "resources", "import", path); err == nil {
		t.Fatal("expected validation error")
	}
	out := mustRun(t, dir, "resources", "list")
	if !strings.Contains(out, "No resources.") {
		t.Errorf("store must stay empty\n%s", out)
	}
}

// ── recommend ────────────────────────────────────────────────────────────────

func TestRecommend_SampleFleet(t *testing.T) {
	dir := isolate(t)
	mustRun(t, dir, "resources", "seed")

	out := mustRun(t, dir, "recommend", "--format", "json")
	var report models.AnalysisReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if report.ReportID == "" || report.GeneratedAt.IsZero() {
		t.Error("report must carry an id and timestamp")
	}

	s := report.Summary
	if s.TotalResources != 8 || s.TotalMonthlyCost != 740 || s.TotalPotentialSavings != 160 || s.SavingsPercentage != 21.62 {
		t.Errorf("summary = %d/%v/%v/%v; want 8/740/160/21.62",
			s.TotalResources, s.TotalMonthlyCost, s.TotalPotentialSavings, s.SavingsPercentage)
	}

	want := []struct {
		name    string
		savings float64
	}{
		{"web-server-1", 50},
		{"api-server-2", 45},
		{"worker-3", 35},
		{"backup-storage", 30},
	}
	if len(s.Recommendations) != len(want) {
		t.Fatalf("recommendations = %d; want %d", len(s.Recommendations), len(want))
	}
	for i, w := range want {
		r := s.Recommendations[i]
		if r.ResourceName != w.name || r.EstimatedSavings != w.savings {
			t.Errorf("rec[%d] = %s/%v; want %s/%v", i, r.ResourceName, r.EstimatedSavings, w.name, w.savings)
		}
	}
}

func TestRecommend_EmptyStore(t *testing.T) {
	dir := isolate(t)
	out := mustRun(t, dir, "recommend")
	if !strings.Contains(out, "No recommendations.") {
		t.Errorf("output = %q", out)
	}
}

func TestRecommend_OutputAndMetricsFiles(t *testing.T) {
	dir := isolate(t)
	mustRun(t, dir, "resources", "seed")

	reportPath := filepath.Join(dir, "report.json")
	metricsPath := filepath.Join(dir, "copt.prom")
	out := mustRun(t, dir, "recommend", "--output", reportPath, "--metrics-file", metricsPath)
	if !strings.Contains(out, "$160.00 (21.62%)") {
		t.Errorf("table output = %q", out)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report file: %v", err)
	}
	if !strings.Contains(string(data), `"total_potential_savings": 160`) {
		t.Errorf("report file content:\n%s", data)
	}

	prom, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !strings.Contains(string(prom), "copt_potential_savings_dollars 160") {
		t.Errorf("metrics file content:\n%s", prom)
	}
}

func TestRecommend_PolicyOverrides(t *testing.T) {
	dir := isolate(t)
	mustRun(t, dir, "resources", "seed")
	pol := writeFile(t, dir, "policy.yaml", `
version: 1
rules:
  DOWNSIZE_UNDERUTILIZED:
    enabled: false
  STORAGE_LARGE_VOLUME:
    confidence: low
`)

	out := mustRun(t, dir, "--policy", pol, "recommend", "--format", "json")
	var report models.AnalysisReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	recs := report.Summary.Recommendations
	if len(recs) != 1 || recs[0].ResourceName != "backup-storage" || recs[0].ConfidenceLevel != models.ConfidenceLow {
		t.Fatalf("recommendations = %+v", recs)
	}
	if report.Summary.TotalPotentialSavings != 30 {
		t.Errorf("TotalPotentialSavings = %v; want 30", report.Summary.TotalPotentialSavings)
	}
}

func TestRecommend_EnforcementFails(t *testing.T) {
	dir := isolate(t)
	mustRun(t, dir, "resources", "seed")
	pol := writeFile(t, dir, "policy.yaml", `
version: 1
enforcement:
  max_savings_percentage: 10
`)

	out, err := run(t, dir, "--policy", pol, "recommend")
	if err == nil || !strings.Contains(err.Error(), "policy enforcement failed") {
		t.Fatalf("err = %v; want enforcement failure", err)
	}
	if !strings.Contains(out, "web-server-1") {
		t.Error("the report must still be printed before failing")
	}
}

func TestRecommend_InvalidPolicyRejected(t *testing.T) {
	dir := isolate(t)
	pol := writeFile(t, dir, "policy.yaml", "version: 1\nrules:\n  NOT_A_RULE:\n    enabled: false\n")
	if _, err := run(t, dir, "--policy", pol, "recommend"); err == nil || !strings.Contains(err.Error(), "NOT_A_RULE") {
		t.Errorf("err = %v; want unknown rule error", err)
	}
}

func TestRecommend_InvalidFormat(t *testing.T) {
	dir := isolate(t)
	if _, err := run(t, dir, "recommend", "--format", "xml"); err == nil {
		t.Error("expected invalid format error")
	}
}

// ── health / cost-summary ────────────────────────────────────────────────────

func TestHealth_OverProvisioned(t *testing.T) {
	dir := isolate(t)
	mustRun(t, dir, "resources", "seed")

	out := mustRun(t, dir, "health", "1", "--format", "json")
	var h models.ResourceHealth
	if err := json.Unmarshal([]byte(out), &h); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.ResourceName != "web-server-1" || h.HealthScore != 45 || h.Status != models.HealthOverProvisioned || len(h.Issues) != 2 {
		t.Errorf("health = %+v", h)
	}

	out = mustRun(t, dir, "health", "4")
	if !strings.Contains(out, "100/100") || !strings.Contains(out, "optimal") {
		t.Errorf("database-1 health output:\n%s", out)
	}
}

func TestCostSummary(t *testing.T) {
	dir := isolate(t)
	mustRun(t, dir, "resources", "seed")

	out := mustRun(t, dir, "cost-summary", "--format", "json")
	var ca models.CostAnalytics
	if err := json.Unmarshal([]byte(out), &ca); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ca.TotalMonthlyCost != 740 || ca.TotalResources != 8 {
		t.Errorf("totals = %v/%d", ca.TotalMonthlyCost, ca.TotalResources)
	}
	if got := ca.CostByType[models.ResourceStorage]; got.Count != 3 || got.Cost != 200 {
		t.Errorf("storage breakdown = %+v; want 3/200", got)
	}
	if ca.OptimizationPotential.RecommendationsCount != 4 {
		t.Errorf("RecommendationsCount = %d; want 4", ca.OptimizationPotential.RecommendationsCount)
	}
}

// ── policy validate ──────────────────────────────────────────────────────────

func TestPolicyValidate(t *testing.T) {
	dir := isolate(t)
	good := writeFile(t, dir, "good.yaml", `
version: 1
rules:
  HEALTH_SCORE:
    params:
      cpu_low: 15
downsizing:
  c5.xlarge:
    to: c5.large
    savings: 60
pricing:
  m5.large: 70
`)
	out := mustRun(t, dir, "policy", "validate", good)
	if !strings.Contains(out, "valid") {
		t.Errorf("output = %q", out)
	}

	bad := writeFile(t, dir, "bad.yaml", `
version: 1
rules:
  TERMINATE_IDLE:
    confidence: extreme
pricing:
  m5.large: -1
`)
	out, err := run(t, dir, "policy", "validate", bad)
	if err == nil || !strings.Contains(err.Error(), "2 validation error(s)") {
		t.Errorf("err = %v; want 2 validation errors", err)
	}
	if !strings.Contains(out, "confidence") || !strings.Contains(out, "pricing") {
		t.Errorf("output must list each error\n%s", out)
	}
}

func TestInvalidStoreFlag(t *testing.T) {
	dir := isolate(t)
	if _, err := run(t, dir, "--store", "sqlite", "resources", "list"); err == nil {
		t.Error("expected invalid store driver error")
	}
}
