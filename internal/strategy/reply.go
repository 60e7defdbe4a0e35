package strategy

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ReplyFields carries everything a Formatter needs to phrase a decision.
type ReplyFields struct {
	Probability float64
	Risk        RiskProfile
	Amount      int64
	LivePrice   *float64
	AssetNote   string
}

// Formatter turns structured decision fields into the reply text.
type Formatter interface {
	Hold(f ReplyFields) string
	Buy(f ReplyFields) string
}

// TextFormatter is the default English formatter.
type TextFormatter struct {
	Currency string
}

// DefaultCurrency prefixes amounts and prices in replies.
const DefaultCurrency = "₹"

func (t TextFormatter) currency() string {
	if t.Currency == "" {
		return DefaultCurrency
	}
	return t.Currency
}

func (t TextFormatter) Hold(f ReplyFields) string {
	var b strings.Builder
	b.WriteString("I don't recommend investing right now. ")
	b.WriteString(fmt.Sprintf("The probability of price increase is only %s%%, which is below your %s-risk safety threshold.",
		FormatPercent(f.Probability), f.Risk))
	t.writePrice(&b, f.LivePrice)
	writeNote(&b, f.AssetNote)
	return b.String()
}

func (t TextFormatter) Buy(f ReplyFields) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Based on current market trends, the probability of a price increase is %s%%.",
		FormatPercent(f.Probability)))
	t.writePrice(&b, f.LivePrice)
	b.WriteString(fmt.Sprintf(" I recommend investing %s%d considering your %s-risk profile.",
		t.currency(), f.Amount, f.Risk))
	writeNote(&b, f.AssetNote)
	return b.String()
}

func (t TextFormatter) writePrice(b *strings.Builder, price *float64) {
	if price != nil {
		b.WriteString(fmt.Sprintf(" The current price is %s%s.", t.currency(), FormatPrice(*price)))
	}
}

func writeNote(b *strings.Builder, note string) {
	if note != "" {
		b.WriteString(" " + note)
	}
}

// FormatPercent renders p (0..1) as a percentage rounded to two decimals,
// keeping at least one decimal digit: 0.55 -> "55.0", 0.5523 -> "55.23".
func FormatPercent(p float64) string {
	if !finite(p) {
		return strconv.FormatFloat(p*100, 'f', -1, 64)
	}
	s := decimal.NewFromFloat(p * 100).Round(2).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatPrice renders a price in its shortest decimal form (101.5 -> "101.5").
func FormatPrice(p float64) string {
	if !finite(p) {
		return strconv.FormatFloat(p, 'f', -1, 64)
	}
	return decimal.NewFromFloat(p).String()
}

// finite reports whether v can be held by a decimal.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
