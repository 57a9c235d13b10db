package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBalances(t *testing.T) {
	balances, err := parseBalances("BTC=10,USDT=100000")
	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.True(t, balances["BTC"].Equal(decimal.NewFromInt(10)))
	assert.True(t, balances["USDT"].Equal(decimal.NewFromInt(100000)))
}

func TestParseBalancesEmpty(t *testing.T) {
	balances, err := parseBalances("")
	require.NoError(t, err)
	assert.Empty(t, balances)
}

func TestParseBalancesRejections(t *testing.T) {
	for _, input := range []string{"BTC", "BTC=ten", "=10", "BTC=-1"} {
		_, err := parseBalances(input)
		assert.Error(t, err, input)
	}
}

func TestGetYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`owner: trader1
balances:
  BTC: "10"
  USDT: "100000"
seed_file: data/orders.csv
dashboard_addr: ":9000"
`), 0o644))

	cfg, err := getYaml(path)
	require.NoError(t, err)

	assert.Equal(t, "trader1", cfg.Owner)
	assert.Equal(t, "data/orders.csv", cfg.SeedFile)
	assert.Equal(t, ":9000", cfg.DashboardAddr)
	assert.Equal(t, defaultTradeLogDir, cfg.TradeLogDir)
	assert.True(t, cfg.Balances["BTC"].Equal(decimal.NewFromInt(10)))
	assert.True(t, cfg.Balances["USDT"].Equal(decimal.NewFromInt(100000)))
}

func TestGetYamlDefaultsOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`balances:
  BTC: "1"
`), 0o644))

	cfg, err := getYaml(path)
	require.NoError(t, err)
	assert.Equal(t, defaultOwner, cfg.Owner)
}

func TestGetYamlBadBalance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`balances:
  BTC: "lots"
`), 0o644))

	_, err := getYaml(path)
	assert.Error(t, err)
}

func TestGetYamlNegativeBalance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`balances:
  BTC: "-5"
`), 0o644))

	_, err := getYaml(path)
	assert.Error(t, err)
}

func TestGetYamlMissingFile(t *testing.T) {
	_, err := getYaml(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
