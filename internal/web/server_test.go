package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLedger struct {
	balances map[string]decimal.Decimal
}

func (s *stubLedger) Snapshot() map[string]decimal.Decimal {
	return s.balances
}

func TestHandleBalances(t *testing.T) {
	server := NewServer(":0", nil, &stubLedger{balances: map[string]decimal.Decimal{
		"BTC":  decimal.RequireFromString("10.2"),
		"USDT": decimal.RequireFromString("97900"),
	}})

	rec := httptest.NewRecorder()
	server.handleBalances(rec, httptest.NewRequest(http.MethodGet, "/balances", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "10.2", body["BTC"])
	assert.Equal(t, "97900", body["USDT"])
}

func TestHandleBalancesNoLedger(t *testing.T) {
	server := NewServer(":0", nil, nil)

	rec := httptest.NewRecorder()
	server.handleBalances(rec, httptest.NewRequest(http.MethodGet, "/balances", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleTradeStreamNoJournal(t *testing.T) {
	server := NewServer(":0", nil, nil)

	rec := httptest.NewRecorder()
	server.handleTradeStream(rec, httptest.NewRequest(http.MethodGet, "/trades/stream", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestParseLastEventID(t *testing.T) {
	assert.Equal(t, uint64(0), parseLastEventID("", ""))
	assert.Equal(t, uint64(7), parseLastEventID("7", ""))
	assert.Equal(t, uint64(9), parseLastEventID("", "9"))
	assert.Equal(t, uint64(7), parseLastEventID("7", "9"), "header wins")
	assert.Equal(t, uint64(9), parseLastEventID("junk", "9"))
}
