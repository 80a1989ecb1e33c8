// Package format renders dashboard values for display: grouped integers,
// decimals, currency and percent suffixes, and timestamps, per locale.
package format

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is French, the language of the fixture labels.
const DefaultLocale = "fr-FR"

// CurrencySymbol is appended to monetary amounts.
const CurrencySymbol = "€"

var timeLayouts = map[string]string{
	"fr":    "02/01/2006 15:04:05",
	"de":    "2.1.2006, 15:04:05",
	"en":    "1/2/2006, 3:04:05 PM",
	"en-GB": "02/01/2006, 15:04:05",
}

const fallbackLayout = "2006-01-02 15:04:05"

type Locale struct {
	tag     language.Tag
	printer *message.Printer
	layout  string
}

// New parses a BCP 47 tag such as "fr-FR" or "en-US".
func New(tag string) (*Locale, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("format: invalid locale %q: %w", tag, err)
	}

	layout := fallbackLayout
	base, _ := t.Base()
	region, _ := t.Region()
	if l, ok := timeLayouts[base.String()+"-"+region.String()]; ok {
		layout = l
	} else if l, ok := timeLayouts[base.String()]; ok {
		layout = l
	}

	return &Locale{
		tag:     t,
		printer: message.NewPrinter(t),
		layout:  layout,
	}, nil
}

// MustNew is New for tags known at compile time.
func MustNew(tag string) *Locale {
	l, err := New(tag)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Locale) String() string {
	return l.tag.String()
}

// Integer groups digits, e.g. 2,347,845 (en) or 2 347 845 (fr).
func (l *Locale) Integer(n int64) string {
	return l.printer.Sprintf("%d", n)
}

// Decimal renders d with exactly places fraction digits.
func (l *Locale) Decimal(d decimal.Decimal, places int) string {
	return l.printer.Sprintf("%v", number.Decimal(d.InexactFloat64(), number.Scale(places)))
}

// Currency renders an amount with two fraction digits and the currency symbol.
func (l *Locale) Currency(d decimal.Decimal) string {
	return l.Decimal(d, 2) + " " + CurrencySymbol
}

// Percent renders d with places fraction digits and a percent suffix. The
// decimal point is not localized, matching the dashboard's KPI cards.
func (l *Locale) Percent(d decimal.Decimal, places int32) string {
	return d.StringFixed(places) + "%"
}

// Timestamp renders t in the locale's date and time layout.
func (l *Locale) Timestamp(t time.Time) string {
	return t.Format(l.layout)
}
