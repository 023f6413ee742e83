// Package format renders journal figures for display.
//
// Figures are truncated toward zero, never rounded, so a displayed gain or
// loss never overstates the recorded value.
package format

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultPlaces is the number of decimals shown for prices and amounts.
const DefaultPlaces = 3

// CurrencyCode is the display currency: yuan with three decimals.
const CurrencyCode = "CNY3"

var currency = money.AddCurrency(CurrencyCode, "¥", "$1", ".", ",", DefaultPlaces)

// Truncate drops every digit of v past places decimals, toward zero.
func Truncate(v float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(v).Truncate(places)
}

// Number renders v with exactly places decimals.
func Number(v float64, places int32) string {
	return Truncate(v, places).StringFixed(places)
}

// Price renders a price with DefaultPlaces decimals.
func Price(v float64) string {
	return Number(v, DefaultPlaces)
}

// Percent renders a percentage value (18.8 for 18.8%) with two decimals.
func Percent(v float64) string {
	return Number(v, 2) + "%"
}

// Ratio renders a fraction (0.5 for 50%) as a percentage.
func Ratio(v float64) string {
	return Percent(v * 100)
}

// Amount renders a money amount with grouping and the currency sign.
func Amount(v float64) string {
	minor := Truncate(v, DefaultPlaces).Shift(DefaultPlaces).IntPart()
	return currency.Formatter().Format(minor)
}

// Plain renders v with as many decimals as it needs and no padding.
func Plain(v float64) string {
	return decimal.NewFromFloat(v).String()
}
