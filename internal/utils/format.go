package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BritishEnglish)

// FormatGBP renders a pounds value as currency: £1,234.56
func FormatGBP(v float64) string {
	return printer.Sprintf("£%.2f", v)
}

// FormatInt renders an integer with thousands separators
func FormatInt(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatPct renders a ratio as a percentage with one decimal place
func FormatPct(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// RoundPounds rounds a monetary value to whole pence
func RoundPounds(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
