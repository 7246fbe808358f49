// Package money renders minor-unit amounts the way the storefront displays them.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type Currency struct {
	Code     string
	Exponent int32
	Locale   language.Tag
}

// IDR has no minor unit in circulation, so amounts are whole rupiah.
var IDR = Currency{Code: "IDR", Exponent: 0, Locale: language.Indonesian}

// Major converts a minor-unit amount to its major-unit decimal value.
func (c Currency) Major(amount int64) decimal.Decimal {
	return decimal.New(amount, -c.Exponent)
}

// Format renders amount with the locale's digit grouping, e.g. "IDR 1.250.000".
func (c Currency) Format(amount int64) string {
	p := message.NewPrinter(c.Locale)
	major := c.Major(amount)
	if c.Exponent == 0 {
		return fmt.Sprintf("%s %s", c.Code, p.Sprintf("%d", major.IntPart()))
	}
	f, _ := major.Float64()
	return fmt.Sprintf("%s %s", c.Code, p.Sprint(number.Decimal(f, number.Scale(int(c.Exponent)))))
}

// Format renders an IDR amount.
func Format(amount int64) string {
	return IDR.Format(amount)
}
