// Package format renders money and dates the way the back office shows them (pt-BR).
package format

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Currency renders a value as "R$ 1.234,56". Negative values keep the sign before the symbol.
func Currency(value decimal.Decimal) string {
	rounded := value.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	f, _ := rounded.Float64()
	return sign + "R$ " + printer.Sprintf("%.2f", f)
}

func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

// OptionalDate renders nil as an empty string.
func OptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return Date(*t)
}

func OptionalString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
