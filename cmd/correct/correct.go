// Package correct handles category correction commands
package correct

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"akazakov/snapstat/cmd/root"
	"akazakov/snapstat/internal/learning"
)

var (
	transactionID string
	description   string
	aiCategory    string
	aiConfidence  float64
	category      string
)

// Cmd represents the correct command
var Cmd = &cobra.Command{
	Use:   "correct",
	Short: "Record a manual category correction",
	Long: `Record that the user changed a transaction's category. Enough
agreeing corrections for the same merchant promote a learned mapping
that overrides future AI categorization.`,
	Run: correctFunc,
}

func init() {
	Cmd.Flags().StringVar(&transactionID, "transaction-id", "", "ID of the corrected transaction")
	Cmd.Flags().StringVar(&description, "description", "", "Transaction description as extracted")
	Cmd.Flags().StringVar(&aiCategory, "ai-category", "", "Category the AI originally assigned")
	Cmd.Flags().Float64Var(&aiConfidence, "ai-confidence", 0, "Confidence of the original assignment")
	Cmd.Flags().StringVar(&category, "category", "", "Category chosen by the user")
}

func correctFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.User == "" || description == "" || category == "" {
		root.Log.Error("The correct command needs --user, --description and --category")
		os.Exit(1)
	}

	err := root.AppContainer.Learning.LogCorrection(context.Background(), root.SharedFlags.User,
		learning.Correction{
			TransactionID: transactionID,
			Description:   description,
			AICategory:    aiCategory,
			AIConfidence:  aiConfidence,
			FinalCategory: category,
		})
	if err != nil {
		root.Log.WithError(err).Error("Failed to record correction")
		os.Exit(1)
	}
	root.Log.Info("Correction recorded")
}
