// Package book stores the venue's order flow and matches opposing interest
// by price-time priority.
package book

import (
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/merkel/internal/domain"
)

// ErrEmptyQuerySet is returned when a price aggregate is requested over zero
// entries. Callers must guard with a length check instead of relying on a
// zero sentinel.
var ErrEmptyQuerySet = errors.New("empty query set")

// Book holds every entry ever inserted, across all products and time steps.
// Entries are kept sorted by timestamp ascending; entries sharing a timestamp
// keep their insertion order. Nothing is ever deleted.
type Book struct {
	orders      []domain.Entry
	participant string
}

// New creates a Book from seed orders. The collection must be non-empty at
// startup. Trades produced by matching are tagged against participant.
func New(seed []domain.Entry, participant string) (*Book, error) {
	if len(seed) == 0 {
		return nil, errors.New("book requires at least one seed order")
	}
	if participant == "" {
		participant = domain.DefaultParticipant
	}
	orders := make([]domain.Entry, len(seed))
	copy(orders, seed)
	sort.SliceStable(orders, func(i, j int) bool {
		return domain.ByTimestamp(orders[i], orders[j])
	})
	return &Book{orders: orders, participant: participant}, nil
}

// KnownProducts returns the distinct products seen across all stored entries,
// in ascending code order.
func (b *Book) KnownProducts() []string {
	seen := make(map[string]struct{})
	for _, e := range b.orders {
		seen[e.Product] = struct{}{}
	}
	products := make([]string, 0, len(seen))
	for p := range seen {
		products = append(products, p)
	}
	sort.Strings(products)
	return products
}

// OrdersFor returns copies of all entries matching side, product and
// timestamp, in stored order. An empty result is not an error.
func (b *Book) OrdersFor(side domain.Side, product, timestamp string) []domain.Entry {
	var sub []domain.Entry
	for _, e := range b.orders {
		if e.Side == side && e.Product == product && e.Timestamp == timestamp {
			sub = append(sub, e)
		}
	}
	return sub
}

// HighestPrice returns the maximum price across entries.
func HighestPrice(entries []domain.Entry) (decimal.Decimal, error) {
	if len(entries) == 0 {
		return decimal.Decimal{}, ErrEmptyQuerySet
	}
	max := entries[0].Price
	for _, e := range entries[1:] {
		if e.Price.GreaterThan(max) {
			max = e.Price
		}
	}
	return max, nil
}

// LowestPrice returns the minimum price across entries.
func LowestPrice(entries []domain.Entry) (decimal.Decimal, error) {
	if len(entries) == 0 {
		return decimal.Decimal{}, ErrEmptyQuerySet
	}
	min := entries[0].Price
	for _, e := range entries[1:] {
		if e.Price.LessThan(min) {
			min = e.Price
		}
	}
	return min, nil
}

// EarliestTime returns the timestamp of the first stored entry.
func (b *Book) EarliestTime() string {
	return b.orders[0].Timestamp
}

// NextTime returns the smallest stored timestamp strictly greater than
// after. When no later timestamp exists it wraps around to the first
// entry's timestamp: the simulation is cyclic.
func (b *Book) NextTime(after string) string {
	for _, e := range b.orders {
		if e.Timestamp > after {
			return e.Timestamp
		}
	}
	return b.orders[0].Timestamp
}

// Insert appends an order and restores timestamp ordering. The sort is
// stable, so orders sharing a timestamp keep their relative insertion order.
func (b *Book) Insert(order domain.Entry) {
	b.orders = append(b.orders, order)
	sort.SliceStable(b.orders, func(i, j int) bool {
		return domain.ByTimestamp(b.orders[i], b.orders[j])
	})
}

// Match runs one price-time priority matching pass over the resting asks and
// bids for (product, timestamp) and returns the resulting trades in the
// order they were produced.
//
// It operates on working copies: the stored collection is never mutated, and
// trades are not inserted back into the book. The caller decides what to
// persist. Zero asks or zero bids simply yields zero trades.
func (b *Book) Match(product, timestamp string) []domain.Entry {
	asks := b.OrdersFor(domain.SideAsk, product, timestamp)
	bids := b.OrdersFor(domain.SideBid, product, timestamp)
	var trades []domain.Entry

	sort.SliceStable(asks, func(i, j int) bool { return domain.ByPriceAsc(asks[i], asks[j]) })
	sort.SliceStable(bids, func(i, j int) bool { return domain.ByPriceDesc(bids[i], bids[j]) })

	for i := range asks {
		ask := &asks[i]
		for j := range bids {
			bid := &bids[j]
			if bid.Price.LessThan(ask.Price) {
				continue
			}

			// execution price is always the ask's price
			trade := domain.Entry{
				ID:        uuid.NewString(),
				Price:     ask.Price,
				Timestamp: timestamp,
				Product:   product,
				Side:      domain.SideAskSale,
				Owner:     domain.OwnerDataset,
			}
			if bid.Owner == b.participant {
				trade.Owner = b.participant
				trade.Side = domain.SideBidSale
			}
			// checked after the bid so the ask tag wins on a self-trade
			if ask.Owner == b.participant {
				trade.Owner = b.participant
				trade.Side = domain.SideAskSale
			}

			switch {
			case bid.Amount.Equal(ask.Amount):
				trade.Amount = ask.Amount
				trades = append(trades, trade)
				bid.Amount = decimal.Zero
			case bid.Amount.GreaterThan(ask.Amount):
				trade.Amount = ask.Amount
				trades = append(trades, trade)
				bid.Amount = bid.Amount.Sub(ask.Amount)
			case bid.Amount.GreaterThan(decimal.Zero):
				// partial fill of the ask, keep scanning further bids
				trade.Amount = bid.Amount
				trades = append(trades, trade)
				ask.Amount = ask.Amount.Sub(bid.Amount)
				bid.Amount = decimal.Zero
				continue
			default:
				// bid already exhausted by a prior pairing
				continue
			}
			// the ask is exhausted, move on to the next one
			break
		}
	}
	return trades
}

// Len returns the number of stored entries.
func (b *Book) Len() int {
	return len(b.orders)
}
