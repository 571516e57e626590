package notification

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MoneyFormatter renders amounts with the locale's digit grouping, e.g. "Rp 150.000".
type MoneyFormatter struct {
	printer *message.Printer
	symbol  string
}

func NewMoneyFormatter(locale, symbol string) *MoneyFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Indonesian
	}
	return &MoneyFormatter{printer: message.NewPrinter(tag), symbol: symbol}
}

func (f *MoneyFormatter) Format(amount decimal.Decimal) string {
	var digits string
	if amount.Equal(amount.Truncate(0)) {
		digits = f.printer.Sprintf("%d", amount.IntPart())
	} else {
		digits = f.printer.Sprintf("%.2f", amount.Round(2).InexactFloat64())
	}
	if f.symbol == "" {
		return digits
	}
	return f.symbol + " " + digits
}
