// Package display turns dashboard numbers into locale-aware strings for
// templates. Computation stays in dashstats; this package only formats.
package display

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter formats money, counts and percentages for one locale.
type Formatter struct {
	p      *message.Printer
	symbol string
}

// New returns a Formatter for locale (a BCP 47 tag such as "en-IN").
// Unknown or empty locales fall back to English.
func New(locale, currencySymbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.English
	}
	return &Formatter{p: message.NewPrinter(tag), symbol: currencySymbol}
}

// Money renders v with the currency symbol and two decimals.
func (f *Formatter) Money(v float64) string {
	if v < 0 {
		return "-" + f.symbol + f.p.Sprintf("%.2f", -v)
	}
	return f.symbol + f.p.Sprintf("%.2f", v)
}

// Count renders n with digit grouping.
func (f *Formatter) Count(n int) string {
	return f.p.Sprintf("%d", n)
}

// Percent renders a rate with one decimal.
func (f *Formatter) Percent(v float64) string {
	return f.p.Sprintf("%.1f%%", v)
}

// Growth renders a signed change with one decimal.
func (f *Formatter) Growth(v float64) string {
	if v > 0 {
		return "+" + f.Percent(v)
	}
	return f.Percent(v)
}
