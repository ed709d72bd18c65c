package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stock-scanner",
	Short: "Stock scanner and backtesting API",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(universeCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
