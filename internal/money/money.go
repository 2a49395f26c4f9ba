// Package money renders amounts kept in minor currency units.
package money

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency is used when an order carries no usable currency code.
var DefaultCurrency = currency.MXN

// monedas que se escriben con "$"
var dollarSign = map[currency.Unit]bool{
	currency.MXN: true,
	currency.USD: true,
	currency.CAD: true,
	// x/text solo trae constantes para las monedas más comunes
	currency.MustParseISO("ARS"): true,
	currency.MustParseISO("CLP"): true,
	currency.MustParseISO("COP"): true,
}

// Unit parses an ISO 4217 code, falling back to DefaultCurrency.
func Unit(code string) currency.Unit {
	u, err := currency.ParseISO(code)
	if err != nil {
		return DefaultCurrency
	}
	return u
}

// Format renders minor units (cents) as "$1,234.56 MXN". Conversion to
// display units happens only here.
func Format(minor int64, code string) string {
	u := Unit(code)
	// decimal avoids overflowing -minor at math.MinInt64
	d := decimal.New(minor, -2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0)
	num := humanize.Comma(whole.IntPart()) + "." + d.Sub(whole).StringFixed(2)[2:]
	if dollarSign[u] {
		return fmt.Sprintf("%s$%s %s", sign, num, u)
	}
	return fmt.Sprintf("%s%s %s", sign, num, u)
}

// FormatDecimal renders a price already expressed in display units.
func FormatDecimal(d decimal.Decimal, code string) string {
	return Format(ToMinor(d), code)
}

// ToMinor converts display units to minor units, rounding half away from zero.
func ToMinor(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}
