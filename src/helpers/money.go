package helpers

import (
	"fmt"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// -----------------------------------------------------------------------------
// Money Formatting
// -----------------------------------------------------------------------------

var printer = message.NewPrinter(language.German)

// FormatAmount renders an amount in minor units as a human-readable money
// string in German locale style ("148,20 €"). Unknown ISO codes fall back
// to a plain two-decimal rendering with the code appended.
func FormatAmount(amountCents int64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%.2f %s", float64(amountCents)/100, code)
	}

	amount := unit.Amount(float64(amountCents) / 100)
	return printer.Sprintf("%v", currency.Symbol(amount))
}

// -----------------------------------------------------------------------------
// Clock Label
// -----------------------------------------------------------------------------

// ClockLabel renders the wall-clock time label shown next to the balance.
func ClockLabel(t time.Time) string {
	return t.Format("15:04")
}
