// Package driver runs the interactive trading session: it mediates between
// the order book and the participant's ledger so that only trades
// attributable to the participant touch balances.
package driver

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/merkel/internal/book"
	"github.com/vadiminshakov/merkel/internal/domain"
	"github.com/vadiminshakov/merkel/internal/ledger"
	"go.uber.org/zap"
)

// ErrInsufficientFunds rejects an order the wallet cannot cover. It blocks
// insertion into the book and is surfaced to the user, not escalated.
var ErrInsufficientFunds = errors.New("wallet has insufficient funds")

// Journal records executed trades.
type Journal interface {
	Append(trade domain.Entry) error
}

// Session owns one simulated trading run over a seeded book.
type Session struct {
	book        *book.Book
	ledger      *ledger.Ledger
	journal     Journal
	logger      *zap.Logger
	participant string
	currentTime string
}

// NewSession creates a session positioned at the book's earliest time step.
func NewSession(b *book.Book, l *ledger.Ledger, journal Journal, participant string, logger *zap.Logger) (*Session, error) {
	if b == nil || l == nil {
		return nil, errors.New("book and ledger are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if participant == "" {
		participant = domain.DefaultParticipant
	}
	return &Session{
		book:        b,
		ledger:      l,
		journal:     journal,
		logger:      logger,
		participant: participant,
		currentTime: b.EarliestTime(),
	}, nil
}

// CurrentTime returns the session's time cursor.
func (s *Session) CurrentTime() string {
	return s.currentTime
}

// ParseOrderLine parses the user-typed "product,price,amount" form into its
// fields. Wrong token count or non-numeric fields yield a ParseError.
func ParseOrderLine(line string) (product string, price, amount decimal.Decimal, err error) {
	tokens := strings.Split(strings.TrimSpace(line), ",")
	if len(tokens) != 3 {
		return "", decimal.Decimal{}, decimal.Decimal{},
			&domain.ParseError{Input: line, Reason: "expected product,price,amount"}
	}

	product = strings.TrimSpace(tokens[0])
	if _, perr := domain.ParseProduct(product); perr != nil {
		return "", decimal.Decimal{}, decimal.Decimal{},
			&domain.ParseError{Input: line, Reason: perr.Error()}
	}

	price, perr := decimal.NewFromString(strings.TrimSpace(tokens[1]))
	if perr != nil {
		return "", decimal.Decimal{}, decimal.Decimal{},
			&domain.ParseError{Input: line, Reason: "price is not a number"}
	}
	amount, perr = decimal.NewFromString(strings.TrimSpace(tokens[2]))
	if perr != nil {
		return "", decimal.Decimal{}, decimal.Decimal{},
			&domain.ParseError{Input: line, Reason: "amount is not a number"}
	}
	if price.IsNegative() || amount.IsNegative() {
		return "", decimal.Decimal{}, decimal.Decimal{},
			&domain.ParseError{Input: line, Reason: "price and amount must not be negative"}
	}
	return product, price, amount, nil
}

// PlaceOrder validates and inserts a resting order at the current time step.
// An order the wallet cannot cover is rejected with ErrInsufficientFunds and
// never reaches the book.
func (s *Session) PlaceOrder(side domain.Side, line string) (domain.Entry, error) {
	if !side.IsResting() {
		return domain.Entry{}, errors.Errorf("orders must be bid or ask, got %s", side)
	}

	product, price, amount, err := ParseOrderLine(line)
	if err != nil {
		return domain.Entry{}, err
	}

	order := domain.Entry{
		ID:        uuid.NewString(),
		Price:     price,
		Amount:    amount,
		Timestamp: s.currentTime,
		Product:   product,
		Side:      side,
		Owner:     s.participant,
	}

	if !s.ledger.CanFulfill(order) {
		s.logger.Info("order rejected",
			zap.String("product", product),
			zap.String("side", side.String()),
			zap.String("amount", amount.String()))
		return domain.Entry{}, ErrInsufficientFunds
	}

	s.book.Insert(order)
	s.logger.Info("order placed",
		zap.String("id", order.ID),
		zap.String("product", product),
		zap.String("side", side.String()),
		zap.String("price", price.String()),
		zap.String("amount", amount.String()))
	return order, nil
}

// StepResult summarizes one advance of the simulation clock.
type StepResult struct {
	// MatchedAt is the time step that was matched.
	MatchedAt string
	// Trades holds every trade produced, settled or not.
	Trades []domain.Entry
	// Settled counts trades applied to the participant's ledger.
	Settled int
}

// Advance matches every known product at the current time step, settles the
// participant's trades, journals everything, then moves the cursor to the
// next time step (wrapping to the first when the data set is exhausted).
func (s *Session) Advance() (StepResult, error) {
	result := StepResult{MatchedAt: s.currentTime}

	for _, product := range s.book.KnownProducts() {
		trades := s.book.Match(product, s.currentTime)
		if len(trades) == 0 {
			continue
		}
		result.Trades = append(result.Trades, trades...)

		for _, trade := range trades {
			if s.journal != nil {
				if err := s.journal.Append(trade); err != nil {
					s.logger.Warn("failed to journal trade", zap.String("id", trade.ID), zap.Error(err))
				}
			}
			if trade.Owner != s.participant {
				continue
			}
			if err := s.ledger.Settle(trade); err != nil {
				// an overdraw here means matching or validation is broken
				return result, errors.Wrapf(err, "settle trade %s", trade.ID)
			}
			result.Settled++
			s.logger.Info("trade settled",
				zap.String("id", trade.ID),
				zap.String("product", trade.Product),
				zap.String("side", trade.Side.String()),
				zap.String("price", trade.Price.String()),
				zap.String("amount", trade.Amount.String()))
		}
	}

	s.currentTime = s.book.NextTime(s.currentTime)
	return result, nil
}

// ProductStats summarizes resting asks for one product at the current time.
type ProductStats struct {
	Product  string
	AskCount int
	MaxAsk   decimal.Decimal
	MinAsk   decimal.Decimal
}

// Stats gathers per-product ask statistics for the current time step.
// Products with no resting asks are reported with a zero AskCount.
func (s *Session) Stats() []ProductStats {
	var stats []ProductStats
	for _, product := range s.book.KnownProducts() {
		entry := ProductStats{Product: product}
		asks := s.book.OrdersFor(domain.SideAsk, product, s.currentTime)
		if len(asks) > 0 {
			entry.AskCount = len(asks)
			// guarded by the length check above, High/Low cannot fail here
			entry.MaxAsk, _ = book.HighestPrice(asks)
			entry.MinAsk, _ = book.LowestPrice(asks)
		}
		stats = append(stats, entry)
	}
	return stats
}

// Balances returns the participant's balances keyed by currency.
func (s *Session) Balances() map[string]decimal.Decimal {
	return s.ledger.Snapshot()
}
