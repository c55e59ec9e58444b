package scrape

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoPrice is returned when a price text holds no positive amount.
var ErrNoPrice = errors.New("no price in text")

var amountPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ParsePrice reads the first amount in a price label such as "₹79,999.00"
// or "Rs. 1,299". Grouping commas are ignored.
func ParsePrice(s string) (float64, error) {
	m := amountPattern.FindString(s)
	if m == "" {
		return 0, fmt.Errorf("%w: %q", ErrNoPrice, s)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("%w: %q", ErrNoPrice, s)
	}
	return d.Round(2).InexactFloat64(), nil
}
