// Package tradelog persists executed trades in an append-only WAL so a
// dashboard can replay and stream them. It is an audit log: nothing is
// restored from it on startup.
package tradelog

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/gowal"
	"github.com/vadiminshakov/merkel/internal/domain"
)

const (
	defaultTradeDir   = "./wal/trades"
	tradeSegmentLimit = 1000
	tradeMaxSegments  = 100
	tradeKeyPrefix    = "trade_"
)

// WALStore journals trades in a WAL keyed by product.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// StoredTrade is the serializable form of a trade entry.
type StoredTrade struct {
	ID        string `json:"id"`
	Price     string `json:"price"`
	Amount    string `json:"amount"`
	Timestamp string `json:"timestamp"`
	Product   string `json:"product"`
	Side      string `json:"side"`
	Owner     string `json:"owner"`
}

// TradeRecord bundles a journaled trade with its WAL index.
type TradeRecord struct {
	Index uint64
	Trade StoredTrade
}

// NewWALStore initializes a WAL-backed trade journal under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultTradeDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "seg_",
		SegmentThreshold: tradeSegmentLimit,
		MaxSegments:      tradeMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init trade WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Append journals one executed trade.
func (s *WALStore) Append(trade domain.Entry) error {
	if s == nil || s.wal == nil {
		return errors.New("trade journal is not initialized")
	}
	if trade.Side.IsResting() {
		return fmt.Errorf("refusing to journal resting order %s", trade.Side)
	}

	payload, err := json.Marshal(newStoredTrade(trade))
	if err != nil {
		return errors.Wrap(err, "marshal trade")
	}

	key := fmt.Sprintf("%s%s", tradeKeyPrefix, trade.Product)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// TradesAfter returns all trades journaled after the provided WAL index.
func (s *WALStore) TradesAfter(index uint64) ([]TradeRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("trade journal is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]TradeRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, tradeKeyPrefix) {
			continue
		}
		var trade StoredTrade
		if err := json.Unmarshal(payload, &trade); err != nil {
			return nil, errors.Wrap(err, "decode trade")
		}
		records = append(records, TradeRecord{Index: idx, Trade: trade})
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("trade journal is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}

func newStoredTrade(trade domain.Entry) StoredTrade {
	return StoredTrade{
		ID:        trade.ID,
		Price:     trade.Price.String(),
		Amount:    trade.Amount.String(),
		Timestamp: trade.Timestamp,
		Product:   trade.Product,
		Side:      trade.Side.String(),
		Owner:     trade.Owner,
	}
}

// ToEntry reconstructs a domain entry from its stored form.
func (t StoredTrade) ToEntry() (domain.Entry, error) {
	price, err := decimal.NewFromString(t.Price)
	if err != nil {
		return domain.Entry{}, errors.Wrap(err, "decode trade price")
	}
	amount, err := decimal.NewFromString(t.Amount)
	if err != nil {
		return domain.Entry{}, errors.Wrap(err, "decode trade amount")
	}
	side, err := domain.ParseSide(t.Side)
	if err != nil {
		return domain.Entry{}, errors.Wrap(err, "decode trade side")
	}
	return domain.Entry{
		ID:        t.ID,
		Price:     price,
		Amount:    amount,
		Timestamp: t.Timestamp,
		Product:   t.Product,
		Side:      side,
		Owner:     t.Owner,
	}, nil
}
