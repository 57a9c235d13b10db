// Package ledger tracks per-currency balances for one participant and
// applies trade settlement against them.
package ledger

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/merkel/internal/domain"
)

// Ledger owns the balances of a single participant. Balances never go
// negative: deposits reject negative amounts and withdrawals beyond the
// current balance are refused.
type Ledger struct {
	mu       sync.RWMutex
	balances map[string]decimal.Decimal
}

// New creates a Ledger seeded with the given starting balances. Negative
// starting balances are rejected.
func New(initial map[string]decimal.Decimal) (*Ledger, error) {
	l := &Ledger{balances: make(map[string]decimal.Decimal, len(initial))}
	for currency, amount := range initial {
		if err := l.Deposit(currency, amount); err != nil {
			return nil, errors.Wrapf(err, "seed balance for %s", currency)
		}
	}
	return l, nil
}

// Deposit adds amount to the currency's balance, creating it at zero first.
func (l *Ledger) Deposit(currency string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errors.Wrapf(domain.ErrInvalidAmount, "deposit %s %s", amount.String(), currency)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[currency] = l.balances[currency].Add(amount)
	return nil
}

// Withdraw subtracts amount from the currency's balance. It returns false
// without mutating anything when the amount is negative, the currency is
// unknown, or the balance is insufficient.
func (l *Ledger) Withdraw(currency string, amount decimal.Decimal) bool {
	if amount.IsNegative() {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[currency]
	if !ok || balance.LessThan(amount) {
		return false
	}
	l.balances[currency] = balance.Sub(amount)
	return true
}

// HasFunds reports whether the currency is known with balance >= amount.
func (l *Ledger) HasFunds(currency string, amount decimal.Decimal) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	balance, ok := l.balances[currency]
	return ok && balance.GreaterThanOrEqual(amount)
}

// Balance returns the current balance for the currency, zero when unknown.
func (l *Ledger) Balance(currency string) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[currency]
}

// CanFulfill reports whether the participant can afford the prospective
// order: an ask requires holding the asset being sold, a bid requires
// holding enough settlement currency for amount * price. Trade sides are
// not valid orders and always return false.
func (l *Ledger) CanFulfill(order domain.Entry) bool {
	pair, err := order.Pair()
	if err != nil {
		return false
	}
	switch order.Side {
	case domain.SideAsk:
		return l.HasFunds(pair.Base, order.Amount)
	case domain.SideBid:
		return l.HasFunds(pair.Quote, order.Notional())
	case domain.SideAskSale, domain.SideBidSale:
		return false
	default:
		return false
	}
}

// Settle applies a trade's currency movements: an asksale debits the base
// asset and credits the quote currency, a bidsale does the opposite.
//
// Settlement assumes the resting order behind the trade passed CanFulfill at
// entry time and does not re-validate. An overdraw here means matching or
// validation is broken upstream, so it surfaces as an error instead of
// driving a balance negative.
func (l *Ledger) Settle(trade domain.Entry) error {
	pair, err := trade.Pair()
	if err != nil {
		return errors.Wrap(err, "settle trade")
	}

	notional := trade.Notional()

	l.mu.Lock()
	defer l.mu.Unlock()

	switch trade.Side {
	case domain.SideAskSale:
		// sold the asset, received settlement currency
		return l.move(pair.Base, trade.Amount, pair.Quote, notional)
	case domain.SideBidSale:
		// bought the asset, paid settlement currency
		return l.move(pair.Quote, notional, pair.Base, trade.Amount)
	case domain.SideBid, domain.SideAsk:
		return errors.Errorf("cannot settle resting order side %s", trade.Side)
	default:
		return errors.Errorf("cannot settle unknown side %d", trade.Side)
	}
}

// move debits outgoing and credits incoming atomically. Callers hold mu.
func (l *Ledger) move(debitCurrency string, debit decimal.Decimal, creditCurrency string, credit decimal.Decimal) error {
	balance := l.balances[debitCurrency]
	if balance.LessThan(debit) {
		return errors.Errorf("ledger consistency violation: settle needs %s %s, have %s",
			debit.String(), debitCurrency, balance.String())
	}
	l.balances[debitCurrency] = balance.Sub(debit)
	l.balances[creditCurrency] = l.balances[creditCurrency].Add(credit)
	return nil
}

// Snapshot returns a copy of all balances.
func (l *Ledger) Snapshot() map[string]decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]decimal.Decimal, len(l.balances))
	for currency, balance := range l.balances {
		out[currency] = balance
	}
	return out
}

// Currencies returns the known currency codes in ascending order.
func (l *Ledger) Currencies() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, 0, len(l.balances))
	for currency := range l.balances {
		out = append(out, currency)
	}
	sort.Strings(out)
	return out
}
