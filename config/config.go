// Package config loads simulator settings from a YAML file or CLI flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	defaultOwner         = "simuser"
	defaultDashboardAddr = ":8077"
	defaultTradeLogDir   = "./wal/trades"
)

// Config holds simulator settings.
type Config struct {
	// Owner identifier of the simulated participant.
	Owner string
	// Balances starting balances per currency. Simulation configuration,
	// not a system contract.
	Balances map[string]decimal.Decimal
	// SeedFile optional CSV with seed orders; built-in records when empty.
	SeedFile string
	// DashboardAddr listen address for the web dashboard, empty disables it.
	DashboardAddr string
	// TradeLogDir directory for the trade journal WAL.
	TradeLogDir string
}

// ConfigTmp mirrors Config with YAML-friendly field types.
type ConfigTmp struct {
	Owner         string            `yaml:"owner,omitempty"`
	Balances      map[string]string `yaml:"balances,omitempty"`
	SeedFile      string            `yaml:"seed_file,omitempty"`
	DashboardAddr string            `yaml:"dashboard_addr,omitempty"`
	TradeLogDir   string            `yaml:"tradelog_dir,omitempty"`
}

// Get loads configuration from the path given via -config, falling back to
// the remaining CLI flags.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	owner := flag.String("owner", defaultOwner, "simulated participant identifier")
	balances := flag.String("balances", "BTC=10,USDT=100000", "starting balances, example: BTC=10,USDT=100000")
	seedFile := flag.String("seed", "", "path to csv file with seed orders (built-in data set when empty)")
	dashboardAddr := flag.String("dashboard", defaultDashboardAddr, "dashboard listen address, empty disables")
	tradeLogDir := flag.String("tradelog", defaultTradeLogDir, "trade journal directory")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	parsed, err := parseBalances(*balances)
	if err != nil {
		return Config{}, fmt.Errorf("invalid --balances provided, --balances=%s: %w", *balances, err)
	}

	return Config{
		Owner:         *owner,
		Balances:      parsed,
		SeedFile:      *seedFile,
		DashboardAddr: *dashboardAddr,
		TradeLogDir:   *tradeLogDir,
	}, nil
}

func getYaml(path string) (Config, error) {
	var tmp ConfigTmp

	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Owner:         tmp.Owner,
		SeedFile:      tmp.SeedFile,
		DashboardAddr: tmp.DashboardAddr,
		TradeLogDir:   tmp.TradeLogDir,
	}
	if cfg.Owner == "" {
		cfg.Owner = defaultOwner
	}
	if cfg.TradeLogDir == "" {
		cfg.TradeLogDir = defaultTradeLogDir
	}

	cfg.Balances = make(map[string]decimal.Decimal, len(tmp.Balances))
	for currency, amountStr := range tmp.Balances {
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect balance for %s in yaml config: %s, error: %w", currency, amountStr, err)
		}
		if amount.IsNegative() {
			return Config{}, fmt.Errorf("negative starting balance for %s: %s", currency, amountStr)
		}
		cfg.Balances[currency] = amount
	}
	return cfg, nil
}

func parseBalances(s string) (map[string]decimal.Decimal, error) {
	balances := make(map[string]decimal.Decimal)
	if strings.TrimSpace(s) == "" {
		return balances, nil
	}
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 || strings.TrimSpace(kv[0]) == "" {
			return nil, fmt.Errorf("expected CURRENCY=AMOUNT, got %q", part)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, fmt.Errorf("amount for %s is not a number", kv[0])
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("negative starting balance for %s", kv[0])
		}
		balances[strings.TrimSpace(kv[0])] = amount
	}
	return balances, nil
}
