package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ECOMDASH_REFRESH_DELAY", "1ms")
	t.Setenv("ECOMDASH_EXPERIMENT_DELAY", "1ms")
	t.Setenv("ECOMDASH_LOG_LEVEL", "error")
	t.Setenv("ECOMDASH_LOCALE", "en-US")
	if os.Getenv("ECOMDASH_TOKEN_FILE") == "" {
		t.Setenv("ECOMDASH_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
	}
	color.NoColor = true

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func assertContains(t *testing.T, output string, expectations ...string) {
	t.Helper()
	for _, expected := range expectations {
		if !strings.Contains(output, expected) {
			t.Errorf("output missing expected content: %s\n\nGot:\n%s", expected, output)
		}
	}
}

func TestViewDefaultsToOverview(t *testing.T) {
	output, err := run(t, "view")
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	assertContains(t, output, "E-COMMERCE DASHBOARD", "2,347,845", "1,407,580", "22,457", "1.59%")
}

func TestViewSections(t *testing.T) {
	tests := []struct {
		section string
		want    []string
	}{
		{"funnel", []string{"CONVERSION FUNNEL", "Ajouts panier", "95.1%", "67.6%", "4.93%", "32.39%", "1.60%"}},
		{"products", []string{"TOP 5 PRODUCTS", "#1", "461686", "25.4%", "up", "stable"}},
		{"categories", []string{"Électronique", "34%"}},
		{"activity", []string{"15h", "Peak hour:     15h (175,432 events)", "Busiest day:   Samedi", "Daily average: 384,843 events"}},
		{"pipeline", []string{"Collecte de données", "running"}},
	}

	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			output, err := run(t, "view", tt.section)
			if err != nil {
				t.Fatalf("view %s failed: %v", tt.section, err)
			}
			assertContains(t, output, tt.want...)
		})
	}
}

func TestViewAll(t *testing.T) {
	output, err := run(t, "view", "all")
	if err != nil {
		t.Fatalf("view all failed: %v", err)
	}
	assertContains(t, output, "E-COMMERCE DASHBOARD", "CONVERSION FUNNEL", "PIPELINE STATUS")
}

func TestViewUnknownSection(t *testing.T) {
	if _, err := run(t, "view", "nope"); err == nil {
		t.Error("expected error for unknown section")
	}
}

func TestLocaleFlag(t *testing.T) {
	output, err := run(t, "--locale", "fr-FR", "view")
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if strings.Contains(output, "2,347,845") {
		t.Errorf("fr-FR output should not use comma grouping:\n%s", output)
	}

	if _, err := run(t, "--locale", "not a tag", "view"); err == nil {
		t.Error("expected error for invalid locale")
	}
}

func TestRefresh(t *testing.T) {
	output, err := run(t, "refresh", "--count", "3")
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	assertContains(t, output, "Start: 2,347,845 events", "#1:", "#2:", "#3:")

	if _, err := run(t, "refresh", "--count", "0"); err == nil {
		t.Error("expected error for count 0")
	}
}

func TestABTest(t *testing.T) {
	output, err := run(t, "abtest")
	if err != nil {
		t.Fatalf("abtest failed: %v", err)
	}
	assertContains(t, output,
		"GROUP A (CONTROL)",
		"50,234",
		"1.84%",
		"43,589.29 €",
		"Statistically significant result",
		"15.72%",
		"0.0234",
		"Recommendation: Roll variant B out",
		"7,145.63 €",
	)
}

func TestExportCSV(t *testing.T) {
	output, err := run(t, "export", "products", "--format", "csv")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected header and 5 rows, got %d lines:\n%s", len(lines), output)
	}
	if lines[0] != "id,name,sales" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "461686,Article 461686,891" {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestExportAllJSON(t *testing.T) {
	output, err := run(t, "export", "all", "--format", "json")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var datasets map[string][]map[string]any
	if err := json.Unmarshal([]byte(output), &datasets); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(datasets) != 6 {
		t.Errorf("expected 6 datasets, got %d", len(datasets))
	}
	if len(datasets["hourly"]) != 24 {
		t.Errorf("expected 24 hourly rows, got %d", len(datasets["hourly"]))
	}
}

func TestExportYAML(t *testing.T) {
	output, err := run(t, "export", "funnel", "--format", "yaml")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var datasets map[string][]map[string]any
	if err := yaml.Unmarshal([]byte(output), &datasets); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	funnel := datasets["funnel"]
	if len(funnel) != 3 || funnel[0]["name"] != "Vues" {
		t.Errorf("unexpected funnel export: %v", funnel)
	}
}

func TestExportErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown dataset", []string{"export", "orders"}, "not found"},
		{"bad format", []string{"export", "products", "--format", "xml"}, "invalid format"},
		{"csv for all", []string{"export", "all"}, "single dataset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	t.Setenv("ECOMDASH_TOKEN_FILE", tokenFile)

	if _, err := run(t, "token"); err == nil {
		t.Error("expected error without a token file")
	}

	if err := os.WriteFile(tokenFile, []byte("abc123\n"), 0600); err != nil {
		t.Fatal(err)
	}
	output, err := run(t, "token")
	if err != nil {
		t.Fatalf("token failed: %v", err)
	}
	assertContains(t, output, "http://localhost:8080/dashboard?token=abc123")
}

func TestBaseURL(t *testing.T) {
	if got := baseURL(":9090"); got != "http://localhost:9090" {
		t.Errorf("baseURL(:9090) = %q", got)
	}
	if got := baseURL("0.0.0.0:80"); got != "http://0.0.0.0:80" {
		t.Errorf("baseURL(0.0.0.0:80) = %q", got)
	}
}
