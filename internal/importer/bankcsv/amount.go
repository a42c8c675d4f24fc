package bankcsv

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var amountCleaner = strings.NewReplacer("₹", "", "Rs.", "", "Rs", "", "INR", "", ",", "", " ", "")

// parseStatementAmount parses the amount formats banks put in CSV
// exports: currency markers, comma grouping (Indian or western),
// parenthesised negatives, and trailing Dr/Cr indicators.
//
//	"₹1,23,456.78" -> 123456.78
//	"(450.00)"     -> -450
//	"1,200.50 Dr"  -> -1200.50
func parseStatementAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)

	negative := false

	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = clean[1 : len(clean)-1]
	}

	switch {
	case hasSuffixFold(clean, "dr"):
		negative = true
		clean = clean[:len(clean)-2]
	case hasSuffixFold(clean, "cr"):
		clean = clean[:len(clean)-2]
	}

	d, err := decimal.NewFromString(amountCleaner.Replace(clean))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	if negative {
		d = d.Neg()
	}

	return d, nil
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}
