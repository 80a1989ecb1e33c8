package format

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ecomdash/ecomdash/internal/experiment"
)

func TestVerdictSignificant(t *testing.T) {
	v := MustNew("en-US").Verdict(experiment.Fixture())

	if v.Headline != "Statistically significant result" {
		t.Errorf("Headline = %q", v.Headline)
	}
	if !strings.Contains(v.Detail, "15.72%") || !strings.Contains(v.Detail, "0.0234") {
		t.Errorf("Detail = %q, want improvement and p-value", v.Detail)
	}
	if !strings.Contains(v.Recommendation, "7,145.63 €") {
		t.Errorf("Recommendation = %q, want revenue gain", v.Recommendation)
	}
}

func TestVerdictNotSignificant(t *testing.T) {
	res := experiment.Fixture()
	res = experiment.NewResult(res.GroupA, res.GroupB, decimal.RequireFromString("0.2"))

	v := MustNew("en-US").Verdict(res)
	if v.Headline != "Result not significant" {
		t.Errorf("Headline = %q", v.Headline)
	}
	if !strings.Contains(v.Detail, "0.2000") {
		t.Errorf("Detail = %q, want p-value", v.Detail)
	}
	if !strings.Contains(v.Recommendation, "Extend the test") {
		t.Errorf("Recommendation = %q", v.Recommendation)
	}
}
