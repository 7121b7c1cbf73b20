package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var priceCleaner = strings.NewReplacer(
	"R", "",
	"$", "",
	"€", "",
	"£", "",
	",", "",
	" ", "",
	" ", "",
)

// ParsePrice turns scraped price text like "R15,999.00" into an exact
// decimal amount. Currency symbols and thousands separators are stripped;
// anything that does not parse to a non-negative amount is an error and the
// caller drops the item.
func ParsePrice(text string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(priceCleaner.Replace(text))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty price text %q", text)
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price %q: %w", text, err)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %q", text)
	}

	return price, nil
}
