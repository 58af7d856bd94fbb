package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders amounts as "<symbol> 1,234.00" using the grouping rules of a locale.
type Formatter struct {
	symbol  string
	printer *message.Printer
}

// NewFormatter falls back to English grouping when locale cannot be parsed.
func NewFormatter(symbol, locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{symbol: symbol, printer: message.NewPrinter(tag)}
}

// Format renders the absolute value of amount with two decimals.
func (f *Formatter) Format(amount decimal.Decimal) string {
	abs := amount.Abs().Round(2).InexactFloat64()
	return f.symbol + " " + f.printer.Sprint(number.Decimal(abs, number.Scale(2)))
}

// FormatSigned is Format with a leading minus for negative amounts.
func (f *Formatter) FormatSigned(amount decimal.Decimal) string {
	if amount.Round(2).IsNegative() {
		return "- " + f.Format(amount)
	}
	return f.Format(amount)
}

// FormatDeduction prefixes the amount with a minus sign.
func (f *Formatter) FormatDeduction(amount decimal.Decimal) string {
	return "- " + f.Format(amount)
}

func (f *Formatter) Symbol() string {
	return f.symbol
}
