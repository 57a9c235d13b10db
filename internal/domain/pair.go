// Package domain defines core data structures used throughout the venue simulator.
package domain

import (
	"fmt"
	"strings"
)

// ProductSeparator joins the base and quote currency codes in a product string.
const ProductSeparator = "/"

// Pair currency pair traded on the venue.
type Pair struct {
	// Base traded asset symbol.
	Base string
	// Quote settlement currency symbol.
	Quote string
}

// ParseProduct splits a product string such as "ETH/USDT" into a Pair.
func ParseProduct(product string) (Pair, error) {
	parts := strings.Split(product, ProductSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Pair{}, fmt.Errorf("invalid product %q, expected BASE%sQUOTE", product, ProductSeparator)
	}
	return Pair{Base: parts[0], Quote: parts[1]}, nil
}

// String returns the product representation.
func (p Pair) String() string {
	return fmt.Sprintf("%s%s%s", p.Base, ProductSeparator, p.Quote)
}
