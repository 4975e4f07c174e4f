// Package statement handles spreadsheet statement parsing commands
package statement

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"akazakov/snapstat/cmd/common"
	"akazakov/snapstat/cmd/root"
)

// Cmd represents the statement command
var Cmd = &cobra.Command{
	Use:   "statement",
	Short: "Parse a CSV or XLSX bank statement",
	Long: `Parse a CSV or XLSX bank statement, detect its date, amount and
description columns, categorize every row and write the result as CSV.`,
	Run: statementFunc,
}

func statementFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Statement parse command called")
	content := common.ReadInput(root.SharedFlags.Input, root.Log)

	result, err := root.AppContainer.Spreadsheet.ParseSpreadsheet(
		context.Background(), root.SharedFlags.User, content, root.SharedFlags.Input)
	if err != nil {
		root.Log.WithError(err).Error("Statement parse failed")
		os.Exit(1)
	}
	root.Log.WithField("total", result.TotalAmount).Info("Statement parsed")

	if err := common.WriteTransactions(result.Transactions, root.SharedFlags.Output, root.Log); err != nil {
		root.Log.WithError(err).Error("Failed to write output")
		os.Exit(1)
	}
	root.Log.Info("Statement parsing completed successfully!")
}
