// Package web exposes the simulation over HTTP: a server-sent-events stream
// of journaled trades and a JSON snapshot of the participant's balances.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/merkel/internal/storage/tradelog"
)

const tradePollInterval = 3 * time.Second

type tradeReader interface {
	TradesAfter(index uint64) ([]tradelog.TradeRecord, error)
}

type balanceReader interface {
	Snapshot() map[string]decimal.Decimal
}

// Server exposes HTTP endpoints serving the trade stream and balances.
type Server struct {
	Addr    string
	Journal tradeReader
	Ledger  balanceReader
}

// NewServer creates a new dashboard server instance.
func NewServer(addr string, journal tradeReader, ledger balanceReader) *Server {
	return &Server{Addr: addr, Journal: journal, Ledger: ledger}
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/trades/stream", s.handleTradeStream)
	mux.HandleFunc("/balances", s.handleBalances)

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleTradeStream(w http.ResponseWriter, r *http.Request) {
	if s.Journal == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "trade journal not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// comment heartbeat so proxies keep the connection open
	heartbeat := time.NewTicker(20 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(tradePollInterval)
	defer pollTicker.Stop()

	lastIndex := parseLastEventID(r.Header.Get("Last-Event-ID"), r.URL.Query().Get("last_event_id"))
	sendTrades := func() error {
		records, err := s.Journal.TradesAfter(lastIndex)
		if err != nil {
			return err
		}
		for _, record := range records {
			payload, err := json.Marshal(record.Trade)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "id: %d\n", record.Index)
			fmt.Fprintf(w, "event: trade\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = record.Index
		}
		return nil
	}

	if err := sendTrades(); err != nil {
		http.Error(w, "failed to load trades", http.StatusInternalServerError)
		log.Printf("trade stream initial load: %v", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendTrades(); err != nil {
				log.Printf("trade stream poll: %v", err)
				return
			}
		}
	}
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	if s.Ledger == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "ledger not available")
		return
	}

	balances := make(map[string]string)
	for currency, balance := range s.Ledger.Snapshot() {
		balances[currency] = balance.String()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(balances); err != nil {
		log.Printf("encode balances: %v", err)
	}
}

func parseLastEventID(header, query string) uint64 {
	for _, candidate := range []string{header, query} {
		if candidate == "" {
			continue
		}
		if idx, err := strconv.ParseUint(candidate, 10, 64); err == nil {
			return idx
		}
	}
	return 0
}
