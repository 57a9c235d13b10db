package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Owner identifiers with special meaning to the simulation.
const (
	// OwnerDataset marks background liquidity loaded from the reference
	// data set. Entries owned by it are never settled.
	OwnerDataset = "dataset"
	// DefaultParticipant is the simulated participant unless configured otherwise.
	DefaultParticipant = "simuser"
)

// Entry is one resting order or one executed trade.
//
// An Entry is immutable once created except for Amount, which matching
// decrements in place as the order is filled. An entry with zero Amount is
// fully consumed.
type Entry struct {
	// ID correlates the entry across the journal and the dashboard stream.
	ID string `json:"id,omitempty"`
	// Price limit price for orders, execution price for trades.
	Price decimal.Decimal `json:"price"`
	// Amount remaining quantity of the base currency.
	Amount decimal.Decimal `json:"amount"`
	// Timestamp opaque lexicographically ordered key of the simulated instant.
	Timestamp string `json:"timestamp"`
	// Product traded pair, e.g. "ETH/USDT".
	Product string `json:"product"`
	// Side bid/ask for orders, asksale/bidsale for trades.
	Side Side `json:"side"`
	// Owner participant identifier, OwnerDataset for background liquidity.
	Owner string `json:"owner"`
}

// Pair splits the entry's product into its currency pair.
func (e Entry) Pair() (Pair, error) {
	return ParseProduct(e.Product)
}

// Notional returns amount * price in the quote currency.
func (e Entry) Notional() decimal.Decimal {
	return e.Amount.Mul(e.Price)
}

// Filled reports whether the entry has no remaining amount.
func (e Entry) Filled() bool {
	return e.Amount.IsZero()
}

// String returns a human-readable representation.
func (e Entry) String() string {
	return fmt.Sprintf("%s %s %s price: %s amount: %s owner: %s",
		e.Timestamp, e.Product, e.Side.String(), e.Price.String(), e.Amount.String(), e.Owner)
}

// ByTimestamp orders entries by timestamp ascending. Use with a stable sort
// so entries sharing a timestamp keep their insertion order.
func ByTimestamp(a, b Entry) bool {
	return a.Timestamp < b.Timestamp
}

// ByPriceAsc orders entries by price ascending (best ask first).
func ByPriceAsc(a, b Entry) bool {
	return a.Price.LessThan(b.Price)
}

// ByPriceDesc orders entries by price descending (best bid first).
func ByPriceDesc(a, b Entry) bool {
	return a.Price.GreaterThan(b.Price)
}
