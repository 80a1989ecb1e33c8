package format

import (
	"fmt"

	"github.com/ecomdash/ecomdash/internal/experiment"
)

// Verdict is the human readable reading of an A/B test result.
type Verdict struct {
	Headline       string
	Detail         string
	Recommendation string
}

// Verdict describes res in the locale's number format.
func (l *Locale) Verdict(res experiment.Result) Verdict {
	if res.IsSignificant {
		return Verdict{
			Headline: "Statistically significant result",
			Detail: fmt.Sprintf("Variant B improves the conversion rate by %s (p-value: %s).",
				l.Percent(res.ImprovementPercent, 2), res.PValue.StringFixed(4)),
			Recommendation: fmt.Sprintf("Roll variant B out to all users. Estimated revenue gain: %s over the test period.",
				l.Currency(res.RevenueGain())),
		}
	}
	return Verdict{
		Headline: "Result not significant",
		Detail: fmt.Sprintf("The observed difference of %s is not statistically significant (p-value: %s).",
			l.Percent(res.ImprovementPercent, 2), res.PValue.StringFixed(4)),
		Recommendation: "Extend the test to collect more data before deciding.",
	}
}
