package inventory

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var pricePrinter = message.NewPrinter(language.MustParse("en-PH"))

// FormatPrice renders an amount in pesos with grouping and two decimals.
func FormatPrice(price decimal.Decimal) string {
	f, _ := price.Round(2).Float64()
	return "₱" + pricePrinter.Sprint(number.Decimal(f, number.Scale(2)))
}
