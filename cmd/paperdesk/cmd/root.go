package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "paperdesk",
	Short: "A client-held multi-asset trading account simulator",
	Long: `Paperdesk simulates a multi-asset exchange account entirely in memory.

It provides tools for:
  - Tracking per-asset available/locked balances with an average cost basis
  - Placing, filling and cancelling limit, market and stop-limit orders
  - Opening and closing leveraged positions with quote or native-coin collateral
  - Liquidation-price tracking and forced liquidation sweeps
  - Cross-asset swap pricing through a bridge asset with a fixed spread
  - Journaling fills, closed positions and equity to CSV or SQLite`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
