package cmd

import (
	"fmt"
	"time"

	"github.com/mwyrick/paperdesk/account"
	"github.com/mwyrick/paperdesk/config"
	"github.com/mwyrick/paperdesk/journal"
	"github.com/mwyrick/paperdesk/market"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a demo trading session from a config file",
	Long: `Run a scripted trading session using account settings from a
configuration file: a spot limit buy that fills at a favorable price,
then a leveraged long that is closed at the final mark price.

Example:
  paperdesk run --config examples/configs/basic.yaml --entry 2.50 --exit 2.75`,
	RunE: runRun,
}

var (
	runConfigPath string
	runEntryPrice float64
	runExitPrice  float64
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().Float64Var(&runEntryPrice, "entry", 2.50, "entry price for the scripted trades")
	runCmd.Flags().Float64Var(&runExitPrice, "exit", 2.75, "exit mark price for the scripted trades")
	runCmd.MarkFlagRequired("config")
}

func newJournal(cfg *config.Config) (journal.Journal, error) {
	if cfg.Journal.Type == "csv" {
		return journal.NewCSV(cfg.Journal.FillsFile, cfg.Journal.PositionsFile, cfg.Journal.EquityFile)
	}
	return journal.NewSQLite(cfg.Journal.DBPath)
}

func newAccount(cfg *config.Config, j journal.Journal) *account.Account {
	balances := make(map[account.Mode]map[string]float64, len(cfg.Account.Balances))
	for mode, b := range cfg.Account.Balances {
		balances[account.Mode(mode)] = b
	}
	return account.New(account.Params{
		ID:               cfg.Account.ID,
		Mode:             account.Mode(cfg.Account.Mode),
		StartingBalances: balances,
		Journal:          j,
	})
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	j, err := newJournal(cfg)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	acct := newAccount(cfg, j)
	pair := account.Pair{Base: cfg.Account.NativeSymbol, Quote: cfg.Account.QuoteSymbol}

	fmt.Printf("Running session with config: %s\n", runConfigPath)
	fmt.Printf("  Account: %s (%s mode, demo=%v)\n", acct.ID(), acct.Mode(), account.IsDemo(acct.Mode()))
	fmt.Printf("  Pair: %s, entry %.4f, exit %.4f\n\n", pair, runEntryPrice, runExitPrice)

	// Spot leg: limit buy at entry, filled 1% below it.
	order, err := acct.PlaceOrder(account.PlaceOrderRequest{
		Pair:       pair,
		Side:       account.SideBuy,
		Type:       account.OrderTypeLimit,
		LimitPrice: runEntryPrice,
		Qty:        10,
		Kind:       account.KindSpot,
	})
	if err != nil {
		return fmt.Errorf("place order: %w", err)
	}
	fillPrice := runEntryPrice * 0.99
	if err := acct.FillOrder(order.ID, fillPrice, order.Qty); err != nil {
		return fmt.Errorf("fill order: %w", err)
	}
	fmt.Printf("Filled spot buy %s: %.0f %s @ %.4f\n", order.ID, order.Qty, pair.Base, fillPrice)

	// Leveraged leg: 2x long on quote collateral, closed at the exit mark.
	pos, err := acct.OpenPosition(account.OpenPositionRequest{
		Pair:       pair,
		Side:       account.Long,
		Size:       5,
		Leverage:   2,
		EntryPrice: runEntryPrice,
		Collateral: account.CollateralSpec{Kind: account.CollateralQuote, Symbol: pair.Quote},
	})
	if err != nil {
		return fmt.Errorf("open position: %w", err)
	}
	fmt.Printf("Opened %s %s: size %.0f @ %.4f, liquidation %.4f\n",
		pos.Side, pair, pos.Size, pos.EntryPrice, pos.LiquidationPrice)

	pnl, err := acct.ClosePosition(pos.ID, runExitPrice, 0)
	if err != nil {
		return fmt.Errorf("close position: %w", err)
	}
	fmt.Printf("Closed position: realized PnL %.4f %s\n\n", pnl, pair.Quote)

	quotes := market.NewQuoteStore()
	quotes.Set(market.Quote{Symbol: pair.Base, USD: runExitPrice, Time: time.Now()})
	quotes.Set(market.Quote{Symbol: pair.Quote, USD: 1, Time: time.Now()})

	m := acct.Metrics(quotes)
	if err := j.RecordEquity(journal.EquitySnapshot{
		Time:           time.Now().UTC(),
		PortfolioValue: m.PortfolioValue,
		LockedValue:    m.LockedValue,
		UnrealizedPnL:  m.UnrealizedPnL,
		HoldingPnL:     m.HoldingPnL,
	}); err != nil {
		return fmt.Errorf("record equity: %w", err)
	}

	fmt.Printf("Final Results:\n")
	fmt.Printf("  %s available: %.4f\n", pair.Quote, acct.Balance(pair.Quote).Available)
	fmt.Printf("  %s available: %.4f\n", pair.Base, acct.Balance(pair.Base).Available)
	fmt.Printf("  Portfolio value: %.4f USD\n", m.PortfolioValue)
	fmt.Printf("  Spot holding PnL: %.4f USD\n", m.HoldingPnL)
	if cfg.Journal.Type == "csv" {
		fmt.Printf("\nJournal saved to:\n  - %s\n  - %s\n  - %s\n",
			cfg.Journal.FillsFile, cfg.Journal.PositionsFile, cfg.Journal.EquityFile)
	} else {
		fmt.Printf("\nJournal saved to: %s\n", cfg.Journal.DBPath)
	}

	return nil
}
