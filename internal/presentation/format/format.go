// Package format renders money and countdowns for listings.
package format

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BidIncrement is the step suggested above the current bid. It is advisory;
// placement only requires a strictly higher amount.
var BidIncrement = decimal.NewFromInt(100)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats amount as US dollars, e.g. $22,500.00.
func Currency(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	whole := rounded.Truncate(0)
	cents := rounded.Sub(whole).Shift(2).IntPart()
	return fmt.Sprintf("%s$%s.%02d", sign, printer.Sprintf("%d", whole.IntPart()), cents)
}

// TimeRemaining renders the countdown to end, as "Ended", "Nd Hh", "Hh Mm" or
// "Mm".
func TimeRemaining(end, now time.Time) string {
	diff := end.Sub(now)
	if diff <= 0 {
		return "Ended"
	}

	days := int(diff / (24 * time.Hour))
	hours := int((diff % (24 * time.Hour)) / time.Hour)
	minutes := int((diff % time.Hour) / time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// MinimumNextBid is the suggested next bid above current.
func MinimumNextBid(current decimal.Decimal) decimal.Decimal {
	return current.Add(BidIncrement)
}
