// Package format renders amounts for people. It never changes stored values.
package format

import (
	"strings"

	"github.com/Rhymond/go-money"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"lumina/internal/core"
)

// Options tune Money.
type Options struct {
	// Whole drops the fraction digits, as used for headline balances.
	Whole bool
}

// Symbol returns the display symbol for code. Codes outside the catalog fall
// back to the go-money grapheme, then to the code itself.
func Symbol(code core.CurrencyCode) string {
	if info, ok := core.LookupCurrency(code); ok {
		return info.Symbol
	}
	if cur := money.GetCurrency(string(code)); cur != nil && cur.Grapheme != "" {
		return cur.Grapheme
	}
	return string(code) + " "
}

// Locale returns the catalog locale for code, or en-US.
func Locale(code core.CurrencyCode) string {
	if info, ok := core.LookupCurrency(code); ok {
		return info.Locale
	}
	return "en-US"
}

// FractionDigits is the number of minor-unit digits shown for code, capped
// at the two decimals amounts are stored with.
func FractionDigits(code core.CurrencyCode) int {
	cur := money.GetCurrency(string(code))
	if cur == nil {
		return 2
	}
	return min(cur.Fraction, 2)
}

// Number renders m with locale grouping and exactly digits fraction digits.
func Number(m core.Money, locale string, digits int) string {
	p := message.NewPrinter(parseLocale(locale))
	return p.Sprint(number.Decimal(m.Float(),
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits)))
}

// Money renders m as symbol plus locale-formatted number, e.g. "$1,234.50"
// or "-€1.234,50". An empty locale uses the currency's catalog locale.
func Money(m core.Money, code core.CurrencyCode, locale string, opts Options) string {
	if locale == "" {
		locale = Locale(code)
	}
	digits := FractionDigits(code)
	if opts.Whole {
		digits = 0
	}

	sign := ""
	if m.Cents < 0 {
		sign = "-"
		m = core.Money{Cents: -m.Cents}
	}
	return sign + Symbol(code) + Number(m, locale, digits)
}

// Percent renders v (already in percent) with one decimal place.
func Percent(v float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprint(number.Decimal(v,
		number.MinFractionDigits(1),
		number.MaxFractionDigits(1))) + "%"
}

func parseLocale(locale string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}
