package format

import (
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func TestInteger(t *testing.T) {
	en := MustNew("en-US")
	if got := en.Integer(2347845); got != "2,347,845" {
		t.Errorf("en Integer = %q, want 2,347,845", got)
	}

	fr := MustNew("fr-FR")
	got := fr.Integer(2347845)
	if digitsOnly(got) != "2347845" {
		t.Errorf("fr Integer lost digits: %q", got)
	}
	if got == "2347845" || strings.Contains(got, ",") {
		t.Errorf("fr Integer not grouped with spaces: %q", got)
	}
}

func TestDecimalAndCurrency(t *testing.T) {
	en := MustNew("en-US")
	gain := decimal.RequireFromString("7145.63")

	if got := en.Decimal(gain, 2); got != "7,145.63" {
		t.Errorf("en Decimal = %q, want 7,145.63", got)
	}
	if got := en.Currency(gain); got != "7,145.63 €" {
		t.Errorf("en Currency = %q", got)
	}

	fr := MustNew("fr-FR")
	if got := fr.Decimal(gain, 2); !strings.HasSuffix(got, ",63") {
		t.Errorf("fr Decimal should use a decimal comma: %q", got)
	}
}

func TestPercent(t *testing.T) {
	l := MustNew("fr-FR")
	if got := l.Percent(decimal.RequireFromString("1.6"), 2); got != "1.60%" {
		t.Errorf("Percent = %q, want 1.60%%", got)
	}
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2026, 10, 14, 9, 5, 7, 0, time.UTC)

	tests := []struct {
		tag  string
		want string
	}{
		{"fr-FR", "14/10/2026 09:05:07"},
		{"en-US", "10/14/2026, 9:05:07 AM"},
		{"en-GB", "14/10/2026, 09:05:07"},
		{"ja-JP", "2026-10-14 09:05:07"},
	}
	for _, tt := range tests {
		if got := MustNew(tt.tag).Timestamp(ts); got != tt.want {
			t.Errorf("%s Timestamp = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestNewRejectsInvalidTag(t *testing.T) {
	if _, err := New("not a locale!"); err == nil {
		t.Error("expected error for invalid tag")
	}
}
