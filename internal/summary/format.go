package summary

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount in Brazilian reais, e.g. "R$ 1.234,56".
//
// The amount is rounded to cents. Reais and cents are formatted as
// integers, so no precision is lost for any amount that fits an int64.
func FormatBRL(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	abs := rounded.Abs()

	reais := abs.IntPart()
	cents := abs.Sub(decimal.NewFromInt(reais)).Shift(2).IntPart()

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}

	return fmt.Sprintf("R$ %s%s,%02d", sign, printer.Sprint(number.Decimal(reais)), cents)
}
