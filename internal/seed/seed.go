// Package seed provides the order flow loaded into the book before the
// first time step: a built-in reference data set, or a CSV file.
package seed

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/merkel/internal/domain"
)

// Orders returns the built-in reference records. They span two products and
// two time steps and are owned by the background data set.
func Orders() []domain.Entry {
	return []domain.Entry{
		{Price: dec("10000"), Amount: dec("0.5"), Timestamp: "2020/03/17 17:01:24", Product: "BTC/USDT", Side: domain.SideBid, Owner: domain.OwnerDataset},
		{Price: dec("10500"), Amount: dec("0.2"), Timestamp: "2020/03/17 17:01:24", Product: "BTC/USDT", Side: domain.SideAsk, Owner: domain.OwnerDataset},
		{Price: dec("10100"), Amount: dec("1"), Timestamp: "2020/03/17 17:01:24", Product: "BTC/USDT", Side: domain.SideBid, Owner: domain.OwnerDataset},

		// next time frame
		{Price: dec("200"), Amount: dec("50"), Timestamp: "2020/03/17 17:01:30", Product: "ETH/USDT", Side: domain.SideAsk, Owner: domain.OwnerDataset},
		{Price: dec("190"), Amount: dec("10"), Timestamp: "2020/03/17 17:01:30", Product: "ETH/USDT", Side: domain.SideBid, Owner: domain.OwnerDataset},
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Load reads seed orders from a CSV file with lines of the form
// "timestamp,product,side,price,amount". Blank lines are skipped. A
// malformed line aborts the load with a ParseError naming the line.
func Load(path string) ([]domain.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open seed file")
	}
	defer f.Close()

	var entries []domain.Entry
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		entry, err := parseLine(text, line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read seed file")
	}
	return entries, nil
}

func parseLine(text string, line int) (domain.Entry, error) {
	tokens := strings.Split(text, ",")
	if len(tokens) != 5 {
		return domain.Entry{}, &domain.ParseError{Line: line, Input: text, Reason: "expected 5 comma-separated fields"}
	}

	timestamp := strings.TrimSpace(tokens[0])
	product := strings.TrimSpace(tokens[1])
	if _, err := domain.ParseProduct(product); err != nil {
		return domain.Entry{}, &domain.ParseError{Line: line, Input: text, Reason: err.Error()}
	}

	side, err := domain.ParseSide(strings.TrimSpace(tokens[2]))
	if err != nil {
		return domain.Entry{}, &domain.ParseError{Line: line, Input: text, Reason: err.Error()}
	}
	if !side.IsResting() {
		return domain.Entry{}, &domain.ParseError{Line: line, Input: text, Reason: "seed orders must be bid or ask"}
	}

	price, err := decimal.NewFromString(strings.TrimSpace(tokens[3]))
	if err != nil {
		return domain.Entry{}, &domain.ParseError{Line: line, Input: text, Reason: "price is not a number"}
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(tokens[4]))
	if err != nil {
		return domain.Entry{}, &domain.ParseError{Line: line, Input: text, Reason: "amount is not a number"}
	}
	if price.IsNegative() || amount.IsNegative() {
		return domain.Entry{}, &domain.ParseError{Line: line, Input: text, Reason: "price and amount must not be negative"}
	}

	return domain.Entry{
		Price:     price,
		Amount:    amount,
		Timestamp: timestamp,
		Product:   product,
		Side:      side,
		Owner:     domain.OwnerDataset,
	}, nil
}
